package services

import (
	"time"

	"github.com/agencyhq/go-agency-ledger/internal/common/idgenerator"
	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/common/publisher"
	"github.com/agencyhq/go-agency-ledger/internal/common/retry"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type service struct {
	srv *Services
}

type Services struct {
	conf config.Config

	sqlRepo repositories.SQLRepository

	ledgerPub   publisher.Publisher
	retryer     retry.Retryer
	idgenerator idgenerator.Generator
	metrics     metrics.Metrics

	now func() time.Time

	common service

	Split   *splitEngine
	Payment *payment
	Payout  *payout
	Balance *balance
	Project *project
}

func New(
	conf config.Config,
	sqlRepo repositories.SQLRepository,
	ledgerPub publisher.Publisher,
	idgenerator idgenerator.Generator,
	metrics metrics.Metrics,
) *Services {
	srv := &Services{
		conf:        conf,
		sqlRepo:     sqlRepo,
		ledgerPub:   ledgerPub,
		retryer:     retry.NewExponentialBackOff(conf.ExponentialBackoff),
		idgenerator: idgenerator,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
	srv.common.srv = srv
	srv.Split = (*splitEngine)(&srv.common)
	srv.Payment = (*payment)(&srv.common)
	srv.Payout = (*payout)(&srv.common)
	srv.Balance = (*balance)(&srv.common)
	srv.Project = (*project)(&srv.common)

	return srv
}

// WithClock replaces the time source. Tests use it to pin timestamps.
func (s *Services) WithClock(now func() time.Time) *Services {
	s.now = now
	return s
}
