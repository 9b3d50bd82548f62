package retry

import (
	"context"
	"time"

	"github.com/spetersoncode/scout"
)

// Notify is called before sleeping between attempts with the 1-indexed
// attempt that failed, its error and the upcoming delay.
type Notify func(attempt int, err error, delay time.Duration)

// effectiveDelay honors the server's Retry-After when it asks for longer.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := scout.RetryAfterOf(err); server > configured {
		return server
	}
	return configured
}

// Do executes fn until it succeeds, fails permanently or runs out of
// attempts. It respects context cancellation during backoff waits.
// Returns the last error if all attempts fail.
func Do[T any](ctx context.Context, cfg Config, notify Notify, fn func() (T, error)) (T, error) {
	var zero T
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == attempts-1 {
			break
		}

		delay := effectiveDelay(cfg.Delay(attempt), err)
		if notify != nil {
			notify(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
