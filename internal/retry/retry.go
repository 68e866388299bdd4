// Package retry provides a small bounded-retry helper shared by the calendar
// initialization and auth-refresh paths.
package retry

import (
	"context"
	"time"
)

// Policy bounds a retried operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff returns the delay before attempt n (0-based retry index).
	// Nil means no delay.
	Backoff func(attempt int) time.Duration
	// Retryable reports whether an error is worth retrying. Nil retries all.
	Retryable func(err error) bool
}

// Exponential returns a base*2^n backoff capped at max.
func Exponential(base, max time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		d := base * time.Duration(1<<attempt)
		if d > max {
			d = max
		}
		return d
	}
}

// Do runs fn until it succeeds, exhausts the attempt budget, hits a
// non-retryable error, or ctx is done. It returns the last error observed.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 && p.Backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Backoff(attempt - 1)):
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
