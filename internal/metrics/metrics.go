// Package metrics exposes Prometheus instrumentation for the HTTP server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SimulationsTotal counts completed simulations by kind and outcome.
	SimulationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypercar_simulations_total",
		Help: "Completed simulations by kind (drag, lap) and status (ok, error).",
	}, []string{"kind", "status"})

	// SimulationDuration observes wall-clock simulation time by kind.
	SimulationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hypercar_simulation_duration_seconds",
		Help:    "Wall-clock duration of simulation requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// CatalogFallbacks counts lookups that fell back to the reference spec.
	CatalogFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hypercar_catalog_fallbacks_total",
		Help: "Vehicle lookups served by the reference spec.",
	})

	// HTTPRequestsTotal counts HTTP requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hypercar_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
