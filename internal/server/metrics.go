package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rshade/vsme-emissions/internal/carbon"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	degraded     *prometheus.CounterVec
}

// NewMetrics registers the calculation counters plus the Go and process
// collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vsme_calculations_total",
			Help: "Emission calculations served, by scope.",
		}, []string{"scope"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vsme_degraded_calculations_total",
			Help: "Calculations that fell back to a default, by scope and warning code.",
		}, []string{"scope", "code"}),
	}
	m.registry.MustRegister(
		m.calculations,
		m.degraded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe counts one calculation result.
func (m *Metrics) Observe(res carbon.Result) {
	scope := string(res.Scope)
	m.calculations.WithLabelValues(scope).Inc()
	for _, w := range res.Warnings {
		m.degraded.WithLabelValues(scope, string(w.Code)).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
