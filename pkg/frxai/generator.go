package frxai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrEmptyResponse marks a remote call that succeeded without usable text.
// It is retried like any transport failure.
var ErrEmptyResponse = errors.New("ai response was empty or blocked")

// ImagePart is an image ready to be sent inline to a model.
type ImagePart struct {
	Data     []byte
	MIMEType string
}

// GenerateRequest is a single prompt, optionally with an image, sent to a model.
type GenerateRequest struct {
	Prompt      string
	Image       *ImagePart
	Temperature float32
	// WebSearch enables the backend's search grounding tool.
	WebSearch bool
}

// GenerateResponse is the raw model output plus any grounding citations.
type GenerateResponse struct {
	Text        string
	Model       string
	Citations   []Source
	BlockReason string
}

// Generator is the remote model capability used by the request services.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	return f(ctx, req)
}

// Provider names a generator backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// GeneratorConfig selects and configures a backend.
type GeneratorConfig struct {
	Provider          Provider
	APIKey            string
	BaseURL           string
	Model             string
	MaxOutputTokens   int
	RequestsPerMinute int
	Logger            *slog.Logger
}

var (
	newGeminiGenerator    = func(ctx context.Context, cfg GeneratorConfig) (Generator, error) { return NewGeminiGenerator(ctx, cfg) }
	newOpenAIGenerator    = func(ctx context.Context, cfg GeneratorConfig) (Generator, error) { return NewOpenAIGenerator(cfg) }
	newAnthropicGenerator = func(ctx context.Context, cfg GeneratorConfig) (Generator, error) { return NewAnthropicGenerator(cfg) }
)

// NewGenerator builds the configured backend, rate limited when
// RequestsPerMinute is positive.
func NewGenerator(ctx context.Context, cfg GeneratorConfig) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ai api key is required")
	}
	provider, err := ResolveProvider(cfg.Provider, cfg.BaseURL, cfg.Model)
	if err != nil {
		return nil, err
	}
	cfg.Provider = provider

	var gen Generator
	switch provider {
	case ProviderGemini:
		gen, err = newGeminiGenerator(ctx, cfg)
	case ProviderOpenAI:
		gen, err = newOpenAIGenerator(ctx, cfg)
	case ProviderAnthropic:
		gen, err = newAnthropicGenerator(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		gen = NewRateLimitedGenerator(gen, cfg.RequestsPerMinute)
	}
	return gen, nil
}

// ResolveProvider returns the explicit provider, or infers one from the base
// URL and model name. Gemini is the fallback.
func ResolveProvider(provider Provider, baseURL, model string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(string(provider)))) {
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported ai provider: %s", provider)
	}

	modelLower := strings.ToLower(strings.TrimSpace(model))
	endpointLower := strings.ToLower(strings.TrimSpace(baseURL))
	switch {
	case strings.HasPrefix(modelLower, "gemini"),
		strings.Contains(endpointLower, "generativelanguage.googleapis.com"):
		return ProviderGemini, nil
	case strings.HasPrefix(modelLower, "claude"),
		strings.Contains(endpointLower, "anthropic.com"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(modelLower, "gpt"),
		strings.HasPrefix(modelLower, "o1"),
		strings.HasPrefix(modelLower, "o3"),
		strings.HasPrefix(modelLower, "o4"),
		strings.Contains(endpointLower, "openai.com"):
		return ProviderOpenAI, nil
	default:
		return ProviderGemini, nil
	}
}

func emptyResponseError(blockReason string) error {
	if blockReason == "" {
		return fmt.Errorf("%w, possibly due to safety settings", ErrEmptyResponse)
	}
	return fmt.Errorf("%w: %s", ErrEmptyResponse, blockReason)
}

// appendCitation keeps citations carrying both uri and title, in the order
// the model returned them.
func appendCitation(list []Source, uri, title string) []Source {
	if uri == "" || title == "" {
		return list
	}
	return append(list, Source{URI: uri, Title: title})
}

func logAIPromptDebug(logger *slog.Logger, provider Provider, model string, req GenerateRequest) {
	if logger == nil {
		logger = slog.Default()
	}
	imageBytes := 0
	if req.Image != nil {
		imageBytes = len(req.Image.Data)
	}
	logger.Debug("ai request prompt",
		"provider", provider,
		"model", strings.TrimSpace(model),
		"web_search", req.WebSearch,
		"image_bytes", imageBytes,
		"prompt", req.Prompt,
	)
}

func logAIRawResponseDebug(logger *slog.Logger, provider Provider, resp GenerateResponse) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("ai raw response",
		"provider", provider,
		"model", resp.Model,
		"text_bytes", len(resp.Text),
		"citations", len(resp.Citations),
		"block_reason", resp.BlockReason,
		"raw_text", resp.Text,
	)
}
