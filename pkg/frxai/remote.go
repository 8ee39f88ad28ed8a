package frxai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// generate sends req through the retry policy. An empty or blocked response
// counts as a failed attempt.
func (c *Core) generate(ctx context.Context, operation string, req GenerateRequest) (GenerateResponse, error) {
	policy := c.retry
	onRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger.Warn("remote call attempt failed, retrying",
			"operation", operation,
			"attempt", attempt+1,
			"max_attempts", policy.MaxAttempts,
			"next_delay", wait,
			"err", err,
		)
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
	}

	span := trace.SpanFromContext(ctx)
	resp, err := WithRetry(ctx, policy, func(ctx context.Context, attempt int) (GenerateResponse, error) {
		resp, err := c.gen.Generate(ctx, req)
		if err == nil && strings.TrimSpace(resp.Text) == "" {
			err = emptyResponseError(resp.BlockReason)
		}
		c.metrics.attempt(operation, err)
		span.AddEvent("remote attempt", trace.WithAttributes(
			attribute.Int("frxai.attempt", attempt+1),
			attribute.Bool("frxai.success", err == nil),
		))
		return resp, err
	})
	if err != nil {
		c.logger.Error("remote call failed after retries",
			"operation", operation,
			"attempts", policy.MaxAttempts,
			"err", err,
		)
		return GenerateResponse{}, err
	}
	return resp, nil
}

// finish records the request outcome on the span and in metrics.
func (c *Core) finish(span trace.Span, operation string, start time.Time, err error) {
	c.metrics.observe(operation, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcomeLabel(err))
	}
	span.End()
}

func (c *Core) logMalformed(operation string, err error) {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		c.logger.Error("failed to parse ai response", "operation", operation, "err", err)
		return
	}
	c.logger.Error("failed to parse ai response", "operation", operation, "err", parseErr)
	c.logger.Debug("unparseable ai response",
		"operation", operation,
		"original", parseErr.Original,
		"cleaned", parseErr.Cleaned,
	)
}

func (c *Core) unavailable(lang Language) error {
	return NewError(ErrCodeUnavailable, Translate(lang, "error_ai_unavailable"))
}
