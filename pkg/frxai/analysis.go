package frxai

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnalyzeChart sends the chart image with the analysis instructions for lang
// and returns the validated analysis. Transport failures and empty responses
// are retried; malformed or mis-shaped responses are not.
func (c *Core) AnalyzeChart(ctx context.Context, image ImagePart, lang Language) (result *AnalysisResult, err error) {
	lang = normalizeLanguage(lang)
	ctx, span := c.tracer.Start(ctx, "frxai.AnalyzeChart", trace.WithAttributes(
		attribute.String("frxai.language", string(lang)),
		attribute.Int("frxai.image_bytes", len(image.Data)),
	))
	start := time.Now()
	defer func() { c.finish(span, operationAnalyze, start, err) }()

	part, err := NewImagePart(image.Data, image.MIMEType, lang)
	if err != nil {
		return nil, err
	}
	if c.gen == nil {
		return nil, c.unavailable(lang)
	}

	resp, err := c.generate(ctx, operationAnalyze, GenerateRequest{
		Prompt:      AnalysisPrompt(lang),
		Image:       &part,
		Temperature: c.temperature,
		WebSearch:   c.webSearch,
	})
	if err != nil {
		return nil, WrapError(ErrCodeRemoteCallFailed, Translate(lang, "error_analysis_retries"), err)
	}

	payload, err := ExtractJSON(resp.Text, lang)
	if err != nil {
		c.logMalformed(operationAnalyze, err)
		return nil, err
	}
	analysis, err := ValidateAnalysis(payload, lang)
	if err != nil {
		var shapeErr *ShapeError
		if errors.As(err, &shapeErr) {
			c.logger.Error("invalid analysis structure received",
				"missing", shapeErr.Missing,
				"mistyped", shapeErr.Mistyped,
				"reason", shapeErr.Reason,
			)
		}
		return nil, err
	}

	// Sources come from grounding metadata only, never from the payload.
	analysis.Sources = nil
	if len(resp.Citations) > 0 {
		analysis.Sources = append([]Source(nil), resp.Citations...)
	}
	span.SetAttributes(
		attribute.String("frxai.asset", analysis.MarketAsset),
		attribute.Int("frxai.sources", len(analysis.Sources)),
	)
	c.logger.Info("chart analyzed",
		"asset", analysis.MarketAsset,
		"language", lang,
		"model", resp.Model,
		"sources", len(analysis.Sources),
	)
	return &analysis, nil
}
