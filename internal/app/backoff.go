package app

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// Default backoff configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// retryTransient runs op, retrying up to retries times while it fails with
// domain.ErrTransient. Any other error stops immediately and is returned as is.
func retryTransient(ctx context.Context, retries int, initial time.Duration, notify func(error, time.Duration), op func() error) error {
	if retries <= 0 {
		return op()
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = initial
	eb.MaxInterval = DefaultBackoffMax
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !errors.Is(err, domain.ErrTransient) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, notify)
}
