package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the server
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "falcon_http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "falcon_http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OddsComputations counts odds computations by outcome
	OddsComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "falcon_odds_computations_total", Help: "Odds computations by outcome."},
		[]string{"outcome"},
	)
	// ExpandedStates tracks how many search states each computation explored
	ExpandedStates = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "falcon_search_expanded_states", Help: "Search states explored per odds computation.", Buckets: prometheus.ExponentialBuckets(1, 4, 10)},
	)
	// CacheLookups counts odds cache hits and misses
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "falcon_odds_cache_total", Help: "Odds cache lookups by result."},
		[]string{"result"},
	)
)

// Outcomes recorded in OddsComputations.
const (
	OutcomeReached         = "reached"
	OutcomeUnreachable     = "unreachable"
	OutcomeUnknownLocation = "unknown_location"
	OutcomeError           = "error"
)

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OddsComputations)
		Registry.MustRegister(ExpandedStates)
		Registry.MustRegister(CacheLookups)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
