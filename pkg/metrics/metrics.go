package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts planning requests and tracks solve latency and the cost of
// the solutions handed back, exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	SolveRequests *prometheus.CounterVec
	SolveDuration prometheus.Histogram
	SolutionCost  prometheus.Histogram
	HTTPRequests  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SolveRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetroute_solve_requests_total",
			Help: "Planning requests by outcome.",
		}, []string{"status"}),
		SolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetroute_solve_duration_seconds",
			Help:    "Wall-clock time spent inside the solver.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		SolutionCost: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetroute_solution_cost_miles",
			Help:    "Total distance of returned solutions in miles.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetroute_http_requests_total",
			Help: "HTTP requests by method and status class.",
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
