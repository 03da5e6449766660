package rest

import (
	"context"
	"time"
)

// RetryPolicy bounds how many times a logical call is attempted. MaxRetries
// counts retries after the first attempt, so a call makes at most
// MaxRetries+1 attempts; zero means exactly one attempt, no delay.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
}

// DefaultRetryPolicy applies when neither the client nor the request
// overrides it.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	Timeout:    15 * time.Second,
}

// backoffDelay returns the pause inserted after a failed attempt. The delay
// doubles with each attempt index, no jitter.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << uint(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
