package frxai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-search-preview"

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
	logger          *slog.Logger
}

// NewOpenAIGenerator creates an OpenAI client for cfg.
func NewOpenAIGenerator(cfg GeneratorConfig) (*OpenAIGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := trimTrailingSlash(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL+"/"))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIGenerator{
		client:          openai.NewClient(opts...),
		model:           model,
		maxOutputTokens: int64(cfg.MaxOutputTokens),
		logger:          logger,
	}, nil
}

// Generate sends the prompt and optional image as a single user message.
// Web search is only requested from search-capable models, which reject
// sampling parameters.
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	logAIPromptDebug(g.logger, ProviderOpenAI, g.model, req)

	parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(req.Prompt)}
	if req.Image != nil {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: imageDataURL(*req.Image),
		}))
	}

	params := openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	}
	if g.maxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(g.maxOutputTokens)
	}
	if req.WebSearch && isOpenAISearchModel(g.model) {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{SearchContextSize: "medium"}
	} else {
		params.Temperature = openai.Float(float64(req.Temperature))
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("openai chat completion failed: %w", err)
	}

	result := GenerateResponse{Model: strings.TrimSpace(completion.Model)}
	if result.Model == "" {
		result.Model = g.model
	}
	if len(completion.Choices) > 0 {
		message := completion.Choices[0].Message
		result.Text = strings.TrimSpace(message.Content)
		result.BlockReason = strings.TrimSpace(message.Refusal)
		for _, annotation := range message.Annotations {
			result.Citations = appendCitation(result.Citations, annotation.URLCitation.URL, annotation.URLCitation.Title)
		}
	}
	logAIRawResponseDebug(g.logger, ProviderOpenAI, result)
	return result, nil
}

func isOpenAISearchModel(model string) bool {
	return strings.Contains(strings.ToLower(model), "search")
}

func imageDataURL(image ImagePart) string {
	return "data:" + image.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}

func trimTrailingSlash(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}
