package recovery

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds the retry loop for transport calls.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries int
	// BaseDelay is the first backoff; each retry doubles it.
	BaseDelay time.Duration
}

// DefaultRetryConfig returns the retry bounds used for tracker and
// model calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
	}
}

// Retry runs op, retrying with exponential backoff while the failure
// classifies as retryable. Validation and unknown errors return
// immediately; a run out of attempts wraps the last error.
func (s *System) Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := cfg.BaseDelay * time.Duration(1<<uint(attempt-1))
			s.debugLog("[recovery] retry %d in %v after: %v", attempt, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !s.Classify(lastErr).Retryable() {
			return lastErr
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}
