package frxai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = string(anthropic.ModelClaudeSonnet4_5)
	defaultAnthropicMaxTokens = 4096
	anthropicWebSearchMaxUses = 5
)

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewAnthropicGenerator creates an Anthropic client for cfg.
func NewAnthropicGenerator(cfg GeneratorConfig) (*AnthropicGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := trimTrailingSlash(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL+"/"))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultAnthropicModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AnthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(defaultInt(cfg.MaxOutputTokens, defaultAnthropicMaxTokens)),
		logger:    logger,
	}, nil
}

// Generate sends the image block (if any) and the prompt as one user message.
// Text blocks are concatenated; web search citations become sources.
func (g *AnthropicGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	logAIPromptDebug(g.logger, ProviderAnthropic, g.model, req)

	blocks := make([]anthropic.ContentBlockParamUnion, 0, 2)
	if req.Image != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   g.maxTokens,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	if req.WebSearch {
		params.Tools = []anthropic.ToolUnionParam{{
			OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{MaxUses: anthropic.Int(anthropicWebSearchMaxUses)},
		}}
	}

	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("anthropic create message failed: %w", err)
	}

	result := GenerateResponse{Model: strings.TrimSpace(string(message.Model))}
	if result.Model == "" {
		result.Model = g.model
	}
	if message.StopReason == anthropic.StopReasonRefusal {
		result.BlockReason = string(message.StopReason)
	}
	var text strings.Builder
	for _, block := range message.Content {
		if block.Type != "text" {
			continue
		}
		text.WriteString(block.Text)
		for _, citation := range block.Citations {
			if citation.Type == "web_search_result_location" {
				result.Citations = appendCitation(result.Citations, citation.URL, citation.Title)
			}
		}
	}
	result.Text = strings.TrimSpace(text.String())
	logAIRawResponseDebug(g.logger, ProviderAnthropic, result)
	return result, nil
}
