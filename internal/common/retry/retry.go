package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/config"
)

const DefaultMaxRetries uint64 = 3

type Retryer interface {
	Retry(ctx context.Context, operation, fallback func() error) error
	StopRetryWithErr(err error) error
}

type exponentialBackoff struct {
	cfg config.ExponentialBackOffConfig
}

// NewExponentialBackOff returns a Retryer with exponential backoff. Unset fields fall back
// to the backoff package defaults.
func NewExponentialBackOff(cfg config.ExponentialBackOffConfig) Retryer {
	if cfg.MaxBackoffTime <= 0 {
		cfg.MaxBackoffTime = backoff.DefaultMaxElapsedTime
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = backoff.DefaultMultiplier
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	return &exponentialBackoff{cfg: cfg}
}

// Retry runs operation until it succeeds, returns a permanent error or the retry budget
// runs out. In the last two cases fallback is called and its error is returned.
func (r *exponentialBackoff) Retry(ctx context.Context, operation, fallback func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = r.cfg.MaxBackoffTime
	eb.Multiplier = r.cfg.BackoffMultiplier

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(eb, r.cfg.MaxRetries), ctx))
	if err == nil {
		return nil
	}

	log.Debug(ctx, "retry exhausted", log.Err(err))
	if fallback == nil {
		return err
	}
	return fallback()
}

// StopRetryWithErr marks err as permanent. Call it inside the operation.
func (r *exponentialBackoff) StopRetryWithErr(err error) error {
	return backoff.Permanent(err)
}
