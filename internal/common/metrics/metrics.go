package metrics

import (
	"database/sql"
	"fmt"
	"time"

	prometheusmetrics "github.com/deathowl/go-metrics-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

const Namespace = "agency_ledger"

type Metrics interface {
	RegisterDB(db *sql.DB, role string, dbName string) error
	RegisterRedis(client *redis.Client, serviceName, namespace string) error
	SaramaRegistry(name string, flushInterval time.Duration) gometrics.Registry
	PrometheusRegisterer() prometheus.Registerer
	GetPublisherPrometheus() *PublisherPrometheusMetrics
	GetLedgerPrometheus() *LedgerPrometheusMetrics
}

type metrics struct {
	reg              prometheus.Registerer
	publisherMetrics *PublisherPrometheusMetrics
	ledgerMetrics    *LedgerPrometheusMetrics
}

// New registers on the prometheus default registerer, which is what /metrics serves.
func New() Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) Metrics {
	return &metrics{
		reg:              reg,
		publisherMetrics: newPublisherPrometheusMetrics(reg),
		ledgerMetrics:    newLedgerPrometheusMetrics(reg),
	}
}

func (m *metrics) RegisterDB(db *sql.DB, role string, dbName string) error {
	return m.reg.Register(collectors.NewDBStatsCollector(db, fmt.Sprintf("%s_%s", dbName, role)))
}

func (m *metrics) RegisterRedis(client *redis.Client, serviceName, namespace string) error {
	return m.reg.Register(redisprometheus.NewCollector(BuildFQName(serviceName, namespace), "redis", client))
}

// SaramaRegistry bridges sarama's go-metrics registry into prometheus, flushing every
// flushInterval until the process exits.
func (m *metrics) SaramaRegistry(name string, flushInterval time.Duration) gometrics.Registry {
	registry := gometrics.NewPrefixedRegistry(FlattenName(name) + "_")
	provider := prometheusmetrics.NewPrometheusProvider(registry, Namespace, "sarama", m.reg, flushInterval)
	go provider.UpdatePrometheusMetrics()

	return registry
}

func (m *metrics) PrometheusRegisterer() prometheus.Registerer {
	return m.reg
}

func (m *metrics) GetPublisherPrometheus() *PublisherPrometheusMetrics {
	return m.publisherMetrics
}

func (m *metrics) GetLedgerPrometheus() *LedgerPrometheusMetrics {
	return m.ledgerMetrics
}
