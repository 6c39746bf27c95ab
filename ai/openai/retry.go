package openai

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultRetryInterval = 500 * time.Millisecond

// retryPolicy builds the backoff used for a single logical call: at most
// attempts tries, stopping early when ctx is done.
func retryPolicy(ctx context.Context, attempts int, initial time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxElapsedTime = 0
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}
