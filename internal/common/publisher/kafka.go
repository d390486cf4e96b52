package publisher

import (
	"time"

	"github.com/Shopify/sarama"
	gometrics "github.com/rcrowley/go-metrics"
)

type Option func(*sarama.Config)

// NewKafkaSyncProducer builds a producer that waits for all in-sync replicas.
func NewKafkaSyncProducer(brokers []string, opts ...Option) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(brokers, NewProducerConfig(opts...))
}

func NewProducerConfig(opts ...Option) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Timeout = 2 * time.Second
	cfg.Net.DialTimeout = 2 * time.Second
	cfg.Net.ReadTimeout = 2 * time.Second
	cfg.Net.WriteTimeout = 2 * time.Second

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func WithClientID(id string) Option {
	return func(cfg *sarama.Config) {
		cfg.ClientID = id
	}
}

// WithMetricRegistry replaces sarama's private go-metrics registry, typically with one
// bridged to prometheus.
func WithMetricRegistry(registry gometrics.Registry) Option {
	return func(cfg *sarama.Config) {
		cfg.MetricRegistry = registry
	}
}
