package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the engine.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// MatrixAPICalls counts external distance-matrix calls, one per tile.
	MatrixAPICalls = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matrix_api_calls_total", Help: "External distance-matrix calls issued."},
	)
	// GeocodeAPICalls counts external geocoding calls (cache misses only).
	GeocodeAPICalls = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "geocode_api_calls_total", Help: "External geocoding calls issued."},
	)
	// MatrixCacheHits / MatrixCacheMisses count whole-record matrix cache lookups.
	MatrixCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matrix_cache_hits_total", Help: "Matrix cache record hits."},
	)
	MatrixCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "matrix_cache_misses_total", Help: "Matrix cache record misses."},
	)
	// GeocodeCacheHits / GeocodeCacheMisses count address cache lookups.
	GeocodeCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "geocode_cache_hits_total", Help: "Geocode cache hits."},
	)
	GeocodeCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "geocode_cache_misses_total", Help: "Geocode cache misses."},
	)

	// QuotaWaitSeconds tracks time spent blocked on the daily call quota.
	QuotaWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "matrix_quota_wait_seconds", Help: "Time spent waiting for daily quota capacity.", Buckets: []float64{.001, .01, .1, 1, 10, 60, 600, 3600}},
	)
	// QuotaRemaining reports unused calls left in the rolling daily window.
	QuotaRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "matrix_quota_remaining", Help: "Distance-matrix calls remaining in the rolling 24h window."},
	)

	// PlansComputed counts completed fleet optimization runs.
	PlansComputed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fleet_plans_computed_total", Help: "Completed fleet optimization runs."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all engine collectors on the Registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(MatrixAPICalls)
		Registry.MustRegister(GeocodeAPICalls)
		Registry.MustRegister(MatrixCacheHits)
		Registry.MustRegister(MatrixCacheMisses)
		Registry.MustRegister(GeocodeCacheHits)
		Registry.MustRegister(GeocodeCacheMisses)
		Registry.MustRegister(QuotaWaitSeconds)
		Registry.MustRegister(QuotaRemaining)
		Registry.MustRegister(PlansComputed)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
