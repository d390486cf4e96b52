// Package graceful runs long-lived processes in the background and stops them in reverse
// start order when the process receives a termination signal.
package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slices"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
)

type ProcessStarter func() error

type ProcessStopper func(ctx context.Context) error

type ProcessStartStopper interface {
	Start() ProcessStarter
	Stop() ProcessStopper
}

func StartProcessAtBackground(ps ...ProcessStarter) {
	for _, p := range ps {
		if p == nil {
			continue
		}
		go func(start ProcessStarter) {
			if err := start(); err != nil {
				log.Error(context.Background(), "background process exited", log.Err(err))
			}
		}(p)
	}
}

// StopProcessAtBackground blocks until SIGINT, SIGTERM or SIGUSR1 and then stops ps.
func StopProcessAtBackground(duration time.Duration, ps ...ProcessStopper) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	defer signal.Stop(sig)

	s := <-sig
	log.Info(context.Background(), "shutting down", log.String("signal", s.String()))
	StopProcess(duration, ps...)
}

// StopProcess calls every stopper last-first, each with its own timeout.
func StopProcess(duration time.Duration, ps ...ProcessStopper) {
	stoppers := slices.Clone(ps)
	slices.Reverse(stoppers)

	for _, p := range stoppers {
		if p == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), duration)
		if err := p(ctx); err != nil {
			log.Warn(ctx, "failed to stop process", log.Err(err))
		}
		cancel()
	}
}
