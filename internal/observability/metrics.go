package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// external-data resolution layer.
type Metrics struct {
	// Cache metrics.
	CacheLookups    *prometheus.CounterVec // labels: result={hit,miss}
	CacheWriteFails prometheus.Counter

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: provider, operation, outcome={success,error,no_results}
	ProviderDuration *prometheus.HistogramVec // labels: provider, operation

	// Verification parse outcomes.
	VerificationParses *prometheus.CounterVec // labels: mode={structured,heuristic}

	// Social feed provenance.
	SocialReports *prometheus.CounterVec // labels: source={live,mock}

	// Feature flags surfaced as gauges for dashboards.
	GeminiEnabled  prometheus.Gauge
	TwitterEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CacheLookups,
		m.CacheWriteFails,
		m.ProviderRequests,
		m.ProviderDuration,
		m.VerificationParses,
		m.SocialReports,
		m.GeminiEnabled,
		m.TwitterEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_response",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by result.",
		}, []string{"result"}),
		CacheWriteFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_response",
			Name:      "cache_write_failures_total",
			Help:      "Cache writes that failed and were swallowed.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_response",
			Name:      "provider_requests_total",
			Help:      "External provider requests by provider, operation, and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "disaster_response",
			Name:      "provider_request_duration_seconds",
			Help:      "External provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "operation"}),
		VerificationParses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_response",
			Name:      "verification_parses_total",
			Help:      "Image verification responses by parse mode.",
		}, []string{"mode"}),
		SocialReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_response",
			Name:      "social_reports_total",
			Help:      "Social media reports served by source.",
		}, []string{"source"}),
		GeminiEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_response",
			Name:      "gemini_enabled",
			Help:      "1 when the Gemini API key is configured, 0 otherwise.",
		}),
		TwitterEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_response",
			Name:      "twitter_enabled",
			Help:      "1 when the Twitter bearer token is configured, 0 otherwise.",
		}),
	}
}
