package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. The pypistats client wraps
// timeouts, rate-limited responses, and 5xx statuses with it so [Retry]
// knows a later attempt may succeed.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling delay between attempts.
// Only errors wrapped in [RetryableError] are retried; anything else (a 404
// for an unknown package, a decode failure) is returned immediately. Returns
// the last error when every attempt fails, or ctx.Err() when cancelled
// mid-backoff.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn through [Retry] with the defaults used for
// pypistats.org calls: 3 attempts starting at 1 second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
