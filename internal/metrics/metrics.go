// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Prometheus Metrics Integration for Production Observability
// This package instruments:
// - Cache tier hit/miss/error rates
// - Search orchestrator stage duration and outcomes
// - Timeline bus publish latency and backend fallbacks
// - SSE transport connections
// - Job registry size

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache Metrics
	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_results_total",
			Help: "Cache lookups by tier and outcome",
		},
		[]string{"tier", "outcome"}, // outcome: "hit", "miss", "error"
	)

	CacheStoreRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_store_rejections_total",
			Help: "Cache stores refused for exceeding the max payload size",
		},
		[]string{"tier"},
	)

	// Orchestrator Metrics
	OrchestratorStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_orchestrator_stage_duration_seconds",
			Help:    "Duration of each search orchestrator stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	OrchestratorOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_orchestrator_outcomes_total",
			Help: "Terminal search job outcomes",
		},
		[]string{"outcome"}, // "completed", "failed"
	)

	// Timeline Metrics
	TimelinePublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_timeline_publish_duration_seconds",
			Help:    "Duration of timeline event publishes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"}, // "redis", "memory"
	)

	TimelineFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_timeline_fallbacks_total",
			Help: "Timeline operations that fell back to the in-memory backend",
		},
	)

	// SSE Metrics
	SSEConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_sse_connected_clients",
			Help: "Current number of open timeline SSE connections",
		},
	)

	// HTTP Dispatch Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_api_request_duration_seconds",
			Help:    "HTTP dispatch layer request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_api_active_requests",
			Help: "Number of HTTP requests currently being handled",
		},
	)

	// Job Registry Metrics
	JobRegistrySize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "search_job_registry_size",
			Help: "Number of tracked jobs by status",
		},
		[]string{"status"},
	)

	// Circuit Breaker Metrics, retained from the teacher. The remote REST
	// cache adapter's breaker does not record into them.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)
)

// RecordCacheLookup records a cache lookup outcome for tier.
func RecordCacheLookup(tier, outcome string) {
	CacheResults.WithLabelValues(tier, outcome).Inc()
}

// RecordCacheStoreRejection records a store refused for exceeding the
// configured payload size ceiling.
func RecordCacheStoreRejection(tier string) {
	CacheStoreRejections.WithLabelValues(tier).Inc()
}

// RecordOrchestratorStage records the duration of one orchestrator
// stage.
func RecordOrchestratorStage(stage string, duration time.Duration) {
	OrchestratorStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordOrchestratorOutcome records a job's terminal outcome.
func RecordOrchestratorOutcome(outcome string) {
	OrchestratorOutcomes.WithLabelValues(outcome).Inc()
}

// RecordTimelinePublish records a publish call's duration against the
// backend that ultimately served it.
func RecordTimelinePublish(backend string, duration time.Duration) {
	TimelinePublishDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordTimelineFallback records a structured-backend failure that fell
// back to the in-memory backend.
func RecordTimelineFallback() {
	TimelineFallbacks.Inc()
}

// SetJobRegistrySize sets the gauge for a given job status.
func SetJobRegistrySize(status string, count int) {
	JobRegistrySize.WithLabelValues(status).Set(float64(count))
}

// RecordCircuitBreakerRequest records a breaker-guarded call's result.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetCircuitBreakerState sets the gauge for a breaker's current state.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordAPIRequest records one completed HTTP dispatch request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// SetSSEConnectedClients sets the gauge of currently open timeline SSE connections.
func SetSSEConnectedClients(count int) {
	SSEConnectedClients.Set(float64(count))
}
