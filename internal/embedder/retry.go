package embedder

import (
	"context"
	"time"
)

// RetryConfig bounds the retry loop wrapped around embedding API calls.
type RetryConfig struct {
	MaxRetries int           // Total attempts, not additional retries
	BaseDelay  time.Duration // Delay before the second attempt
	MaxDelay   time.Duration // Backoff ceiling
	Multiplier float64       // Growth factor between attempts
}

// DefaultRetryConfig matches the provider constants: MaxRetries attempts
// starting at InitialBackoffMs and doubling up to MaxBackoffMs.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: MaxRetries,
		BaseDelay:  time.Duration(InitialBackoffMs) * time.Millisecond,
		MaxDelay:   time.Duration(MaxBackoffMs) * time.Millisecond,
		Multiplier: BackoffMultiplier,
	}
}

// retryWithBackoff runs fn until it succeeds or the attempt budget is
// spent, sleeping between attempts. Context cancellation cuts both the
// sleep and any remaining attempts short.
func retryWithBackoff[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := config.BaseDelay

	for attempt := 0; attempt < config.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == config.MaxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return zero, lastErr
}
