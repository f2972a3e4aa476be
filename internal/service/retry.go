package service

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// RetryPolicy bounds retries of transient provider failures.
type RetryPolicy struct {
	Retries   uint64
	BaseDelay time.Duration
}

// retryTransient runs fn, retrying with exponential backoff while it fails
// with model.ErrTransientProvider. Any other error stops immediately.
func retryTransient(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.WithMaxRetries(p.Retries, retry.NewExponential(base))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, model.ErrTransientProvider) {
			return retry.RetryableError(err)
		}
		return err
	})
}
