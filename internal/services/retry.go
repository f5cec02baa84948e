package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOnConflict calls fn until it succeeds, fails with something other than
// a conflict, or attempts run out. Delays grow exponentially from base with
// jitter. Workflows are not idempotent, so only wrap calls whose failed
// attempts were fully rolled back.
func RetryOnConflict(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newConflictBackOff(base), uint64(attempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := fn(ctx)
		if err != nil && !IsConflict(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func newConflictBackOff(base time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if base < 0 {
		base = 0
	}
	b.InitialInterval = base
	b.Multiplier = 2
	b.MaxInterval = 5 * time.Second
	// Attempts bound the retries, not wall time.
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
