package connection

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// Timer waits between retry attempts. Tests replace it to run the
// backoff schedule without sleeping.
type Timer interface {
	After(time.Duration) <-chan time.Time
}

type realTimer struct{}

func (realTimer) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Backoff returns the wait after the given failed attempt, counted
// from 1: 2^attempt seconds, so 2s, 4s, 8s. There is no jitter.
func Backoff(attempt uint) time.Duration {
	if attempt == 0 {
		attempt = 1
	}
	return time.Duration(1<<attempt) * time.Second
}

// retryOptions builds the retry-go policy: only transport failures are
// retried, up to maxRetries extra attempts.
func (c *Client) retryOptions(r *requestState, maxRetries int) []retry.Option {
	return []retry.Option{
		retry.Context(r.ctx),
		retry.Attempts(uint(maxRetries) + 1),
		retry.LastErrorOnly(true),
		retry.WithTimer(c.timer),
		retry.RetryIf(func(err error) bool {
			return r.ctx.Err() == nil && isRetryable(err)
		}),
		// n is the number of attempts made so far; retry-go increments it
		// before asking for the delay, so the first wait sees n == 1.
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			d := Backoff(n)
			r.log.Warn("request failed, retrying",
				"method", r.method,
				"path", r.path,
				"attempt", n,
				"backoff", d,
				"error", err,
			)
			return d
		}),
	}
}
