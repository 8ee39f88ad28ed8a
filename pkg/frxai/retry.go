package frxai

import (
	"context"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 1500 * time.Millisecond
)

// RetryPolicy describes a bounded retry loop. Every failure is retried the
// same way; there is no jitter and no error classification.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Backoff returns the wait after the zero-based failed attempt.
	// Nil means linear: BaseDelay * (attempt+1).
	Backoff func(attempt int) time.Duration
	// Sleep suspends the caller. Nil means a timer that honors ctx.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultRetryPolicy returns three attempts with 1.5s linear backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: defaultMaxAttempts, BaseDelay: defaultBaseDelay}
}

func (p RetryPolicy) normalized() RetryPolicy {
	p.MaxAttempts = defaultInt(p.MaxAttempts, defaultMaxAttempts)
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	return p
}

// Delay returns the wait that follows the zero-based failed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Backoff != nil {
		return p.Backoff(attempt)
	}
	return p.BaseDelay * time.Duration(attempt+1)
}

// WithRetry runs fn until it succeeds or MaxAttempts is reached and returns
// the last attempt's error unchanged. No wait follows the final attempt.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	policy = policy.normalized()

	var zero T
	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		value, err := fn(ctx, attempt)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if attempt == policy.MaxAttempts-1 {
			break
		}

		wait := policy.Delay(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, err, wait)
		}
		if err := policy.Sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
