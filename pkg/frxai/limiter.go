package frxai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedGenerator spaces out remote calls so retries and concurrent
// users stay under the provider quota.
type RateLimitedGenerator struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator allows perMinute calls per minute with a burst of
// one call per ten allowed, at least one.
func NewRateLimitedGenerator(next Generator, perMinute int) *RateLimitedGenerator {
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

// Generate waits for a token, then delegates.
func (g *RateLimitedGenerator) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return GenerateResponse{}, err
	}
	return g.next.Generate(ctx, req)
}
