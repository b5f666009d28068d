package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered on a per-server registry so tests can build
// several servers in one process.
type metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	analyses         *prometheus.CounterVec
	errors           *prometheus.CounterVec
	solverIterations prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gravdam",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gravdam",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gravdam",
			Name:      "analyses_total",
			Help:      "Completed stability analyses by profile and verdict.",
		}, []string{"profile", "verdict"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gravdam",
			Name:      "analysis_errors_total",
			Help:      "Rejected analyses by error kind.",
		}, []string{"kind"}),
		solverIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gravdam",
			Name:      "solver_iterations",
			Help:      "Bisection iterations per solve-for request.",
			Buckets:   []float64{1, 5, 10, 15, 20, 30, 50, 100},
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.analyses, m.errors, m.solverIterations,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
