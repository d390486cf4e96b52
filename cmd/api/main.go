package main

import (
	"context"
	"sync"
	"time"

	"github.com/agencyhq/go-agency-ledger/cmd/setup"
	"github.com/agencyhq/go-agency-ledger/internal/common/graceful"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/deliveries/http"
)

func main() {
	var (
		ctx      = context.Background()
		starters []graceful.ProcessStarter
		stoppers []graceful.ProcessStopper
	)

	s, stopperContract, err := setup.Init("api")
	if err != nil {
		timeout := 5 * time.Second
		if s != nil && s.Config.App.GracefulTimeout != 0 {
			timeout = s.Config.App.GracefulTimeout
		}

		graceful.StopProcess(timeout, stopperContract...)

		log.Fatalf(ctx, "failed to setup app: %v", err)
	}

	httpServer := http.NewHTTPServer(http.Dependencies{
		Config:         s.Config,
		NewRelic:       s.NewRelic,
		CacheRepo:      s.RepoCache,
		Registerer:     s.Metrics.PrometheusRegisterer(),
		HealthChecks:   s.HealthChecks(),
		SplitEngine:    s.Service.Split,
		PaymentService: s.Service.Payment,
		PayoutService:  s.Service.Payout,
		BalanceService: s.Service.Balance,
		ProjectService: s.Service.Project,
	})

	starters = append(starters, httpServer.Start())
	stoppers = append(stoppers, httpServer.Stop())
	stoppers = append(stoppers, stopperContract...)

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		graceful.StartProcessAtBackground(starters...)
		graceful.StopProcessAtBackground(s.Config.App.GracefulTimeout, stoppers...)
		wg.Done()
	}()
	wg.Wait()
	log.Info(ctx, "http server stopped!")
}
