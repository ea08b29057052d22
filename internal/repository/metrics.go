package repository

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup results recorded in repository_lookups_total.
const (
	ResultFound  = "found"
	ResultAbsent = "absent"
	ResultError  = "error"
)

// Metrics counts lookups per entity kind, backend and outcome.
// The "error" outcome is what lets operators tell a backend outage from missing data.
type Metrics struct {
	lookups *prometheus.CounterVec
}

// NewMetrics creates the lookup counter and registers it on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repository_lookups_total",
				Help: "Total number of repository lookups by kind, backend and result.",
			},
			[]string{"kind", "backend", "result"},
		),
	}
	if err := reg.Register(m.lookups); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(kind, backend, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind, backend, result).Inc()
}

// Lookups exposes the underlying counter, mainly for tests.
func (m *Metrics) Lookups() *prometheus.CounterVec {
	return m.lookups
}
