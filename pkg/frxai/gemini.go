package frxai

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel   = "gemini-2.5-flash-preview-04-17"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// GeminiGenerator calls the Gemini API natively.
type GeminiGenerator struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
	logger          *slog.Logger
}

// NewGeminiGenerator creates a Gemini client for cfg.
func NewGeminiGenerator(ctx context.Context, cfg GeneratorConfig) (*GeminiGenerator, error) {
	clientConfig, err := buildGeminiClientConfig(cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiGenerator{
		client:          client,
		model:           model,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
		logger:          logger,
	}, nil
}

// Generate sends the image (if any) followed by the prompt as one user turn.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	logAIPromptDebug(g.logger, ProviderGemini, g.model, req)

	parts := make([]*genai.Part, 0, 2)
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	requestConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if g.maxOutputTokens > 0 {
		requestConfig.MaxOutputTokens = g.maxOutputTokens
	}
	if req.WebSearch {
		requestConfig.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, requestConfig)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("gemini generate content failed: %w", err)
	}

	result := GenerateResponse{
		Text:  strings.TrimSpace(response.Text()),
		Model: strings.TrimSpace(response.ModelVersion),
	}
	if result.Model == "" {
		result.Model = g.model
	}
	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		result.BlockReason = string(response.PromptFeedback.BlockReason)
	}
	if len(response.Candidates) > 0 && response.Candidates[0] != nil {
		if meta := response.Candidates[0].GroundingMetadata; meta != nil {
			for _, chunk := range meta.GroundingChunks {
				if chunk == nil || chunk.Web == nil {
					continue
				}
				result.Citations = appendCitation(result.Citations, chunk.Web.URI, chunk.Web.Title)
			}
		}
	}
	logAIRawResponseDebug(g.logger, ProviderGemini, result)
	return result, nil
}

func buildGeminiClientConfig(endpoint, apiKey string) (*genai.ClientConfig, error) {
	baseURL, apiVersion, err := parseGeminiBaseURLAndVersion(endpoint)
	if err != nil {
		return nil, err
	}
	return &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: apiVersion,
		},
	}, nil
}

// parseGeminiBaseURLAndVersion splits an endpoint such as
// https://proxy.example.com/gemini/v1beta into base URL and API version.
func parseGeminiBaseURLAndVersion(endpoint string) (string, string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultGeminiBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", fmt.Errorf("invalid gemini endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", fmt.Errorf("invalid gemini endpoint scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", "", fmt.Errorf("invalid gemini endpoint host")
	}

	segments := []string{}
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		segments = strings.Split(path, "/")
	}

	apiVersion := "v1beta"
	prefix := segments
	for idx, segment := range segments {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(segment)), "v1") {
			apiVersion = segment
			prefix = segments[:idx]
			break
		}
	}

	baseURL := fmt.Sprintf("%s://%s/", parsed.Scheme, parsed.Host)
	if basePath := strings.Trim(strings.Join(prefix, "/"), "/"); basePath != "" {
		baseURL += basePath + "/"
	}
	return baseURL, apiVersion, nil
}
