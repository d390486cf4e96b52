package setup

import (
	"context"
	"database/sql"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/common/publisher"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/deliveries/http/health"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

type Setup struct {
	Config          config.Config
	NewRelic        *newrelic.Application
	WriteDB         *sql.DB
	ReadDB          *sql.DB
	Cache           *redis.Client
	RepoCache       repositories.CacheRepository
	LedgerPublisher publisher.Publisher
	Service         *services.Services
	Metrics         metrics.Metrics
}

// HealthChecks are the dependencies the readiness probe pings.
func (s *Setup) HealthChecks() map[string]health.Check {
	return map[string]health.Check{
		"postgres_write": func(ctx context.Context) error { return s.WriteDB.PingContext(ctx) },
		"postgres_read":  func(ctx context.Context) error { return s.ReadDB.PingContext(ctx) },
		"redis":          s.RepoCache.Ping,
	}
}
