package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const (
	OperationProcess   = "process"
	OperationReverse   = "reverse"
	OperationPayout    = "payout"
	OperationReconcile = "reconcile"
)

type LedgerPrometheusMetrics struct {
	operations   *prometheus.CounterVec
	entries      *prometheus.CounterVec
	amounts      *prometheus.CounterVec
	driftedUsers prometheus.Gauge
}

func newLedgerPrometheusMetrics(reg prometheus.Registerer) *LedgerPrometheusMetrics {
	m := &LedgerPrometheusMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "operations_total",
				Help:      "Ledger engine operations by outcome.",
			},
			[]string{"operation", "status"},
		),
		entries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "entries_total",
				Help:      "Ledger entries written (positive) or removed (reverse) by type.",
			},
			[]string{"operation", "entry_type", "currency"},
		),
		amounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "entry_amount_total",
				Help:      "Absolute amount moved through ledger entries.",
			},
			[]string{"operation", "entry_type", "currency"},
		),
		driftedUsers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "balance_drift_users",
				Help:      "Users whose stored balance differs from the sum of their entries at the last reconciliation.",
			},
		),
	}

	reg.MustRegister(m.operations, m.entries, m.amounts, m.driftedUsers)

	return m
}

func (m *LedgerPrometheusMetrics) RecordOperation(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operations.WithLabelValues(operation, status).Inc()
}

// RecordEntries counts entries touched by one operation.
func (m *LedgerPrometheusMetrics) RecordEntries(operation string, entries []models.LedgerEntry) {
	if m == nil {
		return
	}
	for _, e := range entries {
		currency, amount, ok := e.Amounts().Active()
		if !ok {
			continue
		}
		v, _ := amount.Abs().Float64()
		m.entries.WithLabelValues(operation, string(e.Type), string(currency)).Inc()
		m.amounts.WithLabelValues(operation, string(e.Type), string(currency)).Add(v)
	}
}

func (m *LedgerPrometheusMetrics) SetDriftedUsers(n int) {
	if m == nil {
		return
	}
	m.driftedUsers.Set(float64(n))
}
