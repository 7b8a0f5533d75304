package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	QueriesTotal    *prometheus.CounterVec
	QueryFailures   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	NodesReconciled prometheus.Gauge
	WorkersObserved prometheus.Gauge
}

// New creates the collectors for subsystem and registers them with reg.
func New(reg prometheus.Registerer, subsystem string) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clusterview",
				Subsystem: subsystem,
				Name:      "queries_total",
				Help:      fmt.Sprintf("Aggregation queries served by %s", subsystem),
			},
			[]string{"operation"},
		),
		QueryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clusterview",
				Subsystem: subsystem,
				Name:      "query_failures_total",
				Help:      fmt.Sprintf("Aggregation queries that failed in %s", subsystem),
			},
			[]string{"operation"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "clusterview",
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      fmt.Sprintf("Request duration in %s", subsystem),
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		NodesReconciled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "clusterview",
				Subsystem: subsystem,
				Name:      "nodes_reconciled",
				Help:      "Nodes in the most recent topology query",
			},
		),
		WorkersObserved: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "clusterview",
				Subsystem: subsystem,
				Name:      "workers_observed",
				Help:      "Workers in the most recent worker query",
			},
		),
	}

	reg.MustRegister(m.QueriesTotal, m.QueryFailures, m.RequestDuration, m.NodesReconciled, m.WorkersObserved)
	return m
}

// Observe counts one query for op and, if err is set, one failure.
func (m *Metrics) Observe(op string, err error) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(op).Inc()
	if err != nil {
		m.QueryFailures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) SetNodes(n int) {
	if m == nil {
		return
	}
	m.NodesReconciled.Set(float64(n))
}

func (m *Metrics) SetWorkers(n int) {
	if m == nil {
		return
	}
	m.WorkersObserved.Set(float64(n))
}
