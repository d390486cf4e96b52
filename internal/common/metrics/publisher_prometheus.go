package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PublisherPrometheusMetrics struct {
	publishDuration *prometheus.HistogramVec
}

func newPublisherPrometheusMetrics(reg prometheus.Registerer) *PublisherPrometheusMetrics {
	m := &PublisherPrometheusMetrics{
		publishDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "kafka_publish_duration_seconds",
				Help:      "Duration of Kafka message publishing in seconds.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"topic", "success"},
		),
	}
	reg.MustRegister(m.publishDuration)

	return m
}

func (m *PublisherPrometheusMetrics) Observe(start time.Time, topic string, err error) {
	if m == nil {
		return
	}
	m.publishDuration.WithLabelValues(topic, strconv.FormatBool(err == nil)).Observe(time.Since(start).Seconds())
}
