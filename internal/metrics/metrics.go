// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Ledger holds the collectors for balance ledger operations.
// A nil *Ledger is valid and records nothing.
type Ledger struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewLedger creates the ledger collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pokett",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Balance ledger operations by outcome.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pokett",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency of balance ledger operations, lock wait included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration)
	}
	return m
}

// Observe records one finished operation that started at start.
func (m *Ledger) Observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
