// Package prometheus instruments the service's fetch pipeline and HTTP
// routes with Prometheus metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service, registered on
// their own registry.
type Metrics struct {
	registry *prometheus.Registry

	RobotsChecks      *prometheus.CounterVec
	RobotsFetches     *prometheus.CounterVec
	RobotsCacheHits   prometheus.Counter
	RobotsCacheMisses prometheus.Counter
	DocumentFetches   *prometheus.CounterVec
	Requests          *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,

		RobotsChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sosumi_robots_checks_total",
			Help: "Total robots policy checks by outcome",
		}, []string{"outcome"}), // outcome: "allowed", "denied", "error"

		RobotsFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sosumi_robots_fetches_total",
			Help: "Total robots.txt fetches by outcome",
		}, []string{"outcome"}), // outcome: status class or "error"

		RobotsCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "sosumi_robots_cache_hits_total",
			Help: "Total robots policy cache hits",
		}),

		RobotsCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "sosumi_robots_cache_misses_total",
			Help: "Total robots policy cache misses",
		}),

		DocumentFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sosumi_document_fetches_total",
			Help: "Total documentation fetches by outcome",
		}, []string{"outcome"}), // outcome: "ok" or an error code

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sosumi_http_requests_total",
			Help: "Total HTTP requests by method and status",
		}, []string{"method", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sosumi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
