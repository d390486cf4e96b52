package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/common/retry"
	"github.com/agencyhq/go-agency-ledger/internal/config"
)

func TestMain(m *testing.M) {
	log.InitForTest()
	m.Run()
}

func fastConfig(maxRetries uint64) config.ExponentialBackOffConfig {
	return config.ExponentialBackOffConfig{
		MaxRetries:        maxRetries,
		MaxBackoffTime:    time.Second,
		BackoffMultiplier: 1.1,
	}
}

func Test_Retry_ExponentialBackoff(t *testing.T) {
	tests := []struct {
		name          string
		maxRetries    uint64
		failures      int
		permanent     bool
		fallbackErr   error
		wantErr       error
		wantCalls     int
		wantFallbacks int
	}{
		{
			name:       "success on first attempt",
			maxRetries: 2,
			wantCalls:  1,
		},
		{
			name:       "success after retry",
			maxRetries: 2,
			failures:   2,
			wantCalls:  3,
		},
		{
			name:          "exhausted, fallback swallows error",
			maxRetries:    1,
			failures:      10,
			wantCalls:     2,
			wantFallbacks: 1,
		},
		{
			name:          "exhausted, fallback error returned",
			maxRetries:    1,
			failures:      10,
			fallbackErr:   assert.AnError,
			wantErr:       assert.AnError,
			wantCalls:     2,
			wantFallbacks: 1,
		},
		{
			name:          "permanent error stops retrying",
			maxRetries:    5,
			failures:      10,
			permanent:     true,
			wantCalls:     1,
			wantFallbacks: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := retry.NewExponentialBackOff(fastConfig(tt.maxRetries))
			var calls, fallbacks int

			err := r.Retry(context.Background(),
				func() error {
					calls++
					if calls <= tt.failures {
						if tt.permanent {
							return r.StopRetryWithErr(assert.AnError)
						}
						return assert.AnError
					}
					return nil
				},
				func() error {
					fallbacks++
					return tt.fallbackErr
				},
			)

			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantFallbacks, fallbacks)
		})
	}
}

func Test_Retry_NilFallback(t *testing.T) {
	r := retry.NewExponentialBackOff(fastConfig(1))
	err := r.Retry(context.Background(), func() error { return assert.AnError }, nil)
	assert.ErrorIs(t, err, assert.AnError)
}
