// Package metrics provides the centralized Prometheus metrics registry for bet-outlier.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Provider request outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeBreakerOpen = "breaker_open"
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bet_outlier",
		Name:      "analyses_total",
		Help:      "Total number of matchups analyzed by recommendation",
	}, []string{"recommendation"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bet_outlier",
		Name:      "provider_requests_total",
		Help:      "Total number of player provider lookups by outcome",
	}, []string{"provider", "outcome"})
	ReferenceReloadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_outlier",
		Name:      "reference_reloads_total",
		Help:      "Total number of reference table reloads",
	})
)

// Gauge metrics
var (
	ProviderBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bet_outlier",
		Name:      "provider_breaker_state",
		Help:      "Circuit breaker state per provider (0 closed, 1 half-open, 2 open)",
	}, []string{"provider"})
	EnrichmentCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_outlier",
		Name:      "enrichment_cache_hit_ratio",
		Help:      "Hit ratio of the provider response cache",
	})
	ActionableResults = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_outlier",
		Name:      "actionable_results",
		Help:      "Number of actionable results in the latest batch",
	})
)

// Histogram metrics
var (
	EdgePercentage = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bet_outlier",
		Name:      "edge_percentage",
		Help:      "Distribution of computed edge percentages",
		Buckets:   []float64{0.5, 1, 2, 3, 5, 10, 20, 50},
	})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bet_outlier",
		Name:      "batch_duration_seconds",
		Help:      "Duration of analysis batches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ReferenceReloadsTotal)

		registry.MustRegister(ProviderBreakerState)
		registry.MustRegister(EnrichmentCacheHitRatio)
		registry.MustRegister(ActionableResults)

		registry.MustRegister(EdgePercentage)
		registry.MustRegister(BatchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysis records one analyzed matchup. The edge percentage is only
// observed for computable results.
func RecordAnalysis(recommendation string, edgePercentage float64, computable bool) {
	AnalysesTotal.WithLabelValues(recommendation).Inc()
	if computable {
		EdgePercentage.Observe(edgePercentage)
	}
}

// RecordProviderRequest records a provider lookup outcome.
func RecordProviderRequest(provider, outcome string) {
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// UpdateBreakerState sets the breaker state gauge for a provider.
func UpdateBreakerState(provider string, state float64) {
	ProviderBreakerState.WithLabelValues(provider).Set(state)
}

// UpdateCacheHitRatio sets the provider cache hit ratio.
func UpdateCacheHitRatio(ratio float64) {
	EnrichmentCacheHitRatio.Set(ratio)
}

// RecordBatch records a completed analysis batch.
func RecordBatch(durationSeconds float64, actionable int) {
	BatchDuration.Observe(durationSeconds)
	ActionableResults.Set(float64(actionable))
}

// RecordReferenceReload records a reference table reload.
func RecordReferenceReload() {
	ReferenceReloadsTotal.Inc()
}
