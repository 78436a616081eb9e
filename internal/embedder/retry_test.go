package embedder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := retryWithBackoff(context.Background(), fastRetryConfig(), func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RecoversAfterFailure(t *testing.T) {
	calls := 0
	result, err := retryWithBackoff(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_ExhaustsBudget(t *testing.T) {
	sentinel := errors.New("persistent")
	calls := 0
	_, err := retryWithBackoff(context.Background(), fastRetryConfig(), func() (int, error) {
		calls++
		return 0, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retryWithBackoff(ctx, fastRetryConfig(), func() (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no further attempts after cancellation")
}
