// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordCacheLookup(t *testing.T) {
	CacheResults.Reset()
	RecordCacheLookup("precomputed", "hit")
	RecordCacheLookup("precomputed", "hit")
	RecordCacheLookup("precomputed", "miss")

	require.Equal(t, float64(2), testutil.ToFloat64(CacheResults.WithLabelValues("precomputed", "hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(CacheResults.WithLabelValues("precomputed", "miss")))
}

func TestRecordCacheStoreRejection(t *testing.T) {
	CacheStoreRejections.Reset()
	RecordCacheStoreRejection("response")

	require.Equal(t, float64(1), testutil.ToFloat64(CacheStoreRejections.WithLabelValues("response")))
}

func TestRecordOrchestratorStage(t *testing.T) {
	RecordOrchestratorStage("engine", 25*time.Millisecond)
	// Histogram assertions check the count increments rather than the
	// exact bucket, since bucket boundaries are an implementation detail.
	require.Equal(t, 1, testutil.CollectAndCount(OrchestratorStageDuration, "search_orchestrator_stage_duration_seconds"))
}

func TestRecordOrchestratorOutcome(t *testing.T) {
	OrchestratorOutcomes.Reset()
	RecordOrchestratorOutcome("completed")
	RecordOrchestratorOutcome("failed")

	require.Equal(t, float64(1), testutil.ToFloat64(OrchestratorOutcomes.WithLabelValues("completed")))
	require.Equal(t, float64(1), testutil.ToFloat64(OrchestratorOutcomes.WithLabelValues("failed")))
}

func TestRecordTimelineFallback(t *testing.T) {
	before := testutil.ToFloat64(TimelineFallbacks)
	RecordTimelineFallback()
	require.Equal(t, before+1, testutil.ToFloat64(TimelineFallbacks))
}

func TestSetJobRegistrySize(t *testing.T) {
	SetJobRegistrySize("pending", 3)
	require.Equal(t, float64(3), testutil.ToFloat64(JobRegistrySize.WithLabelValues("pending")))
}

func TestCircuitBreakerMetrics(t *testing.T) {
	CircuitBreakerRequests.Reset()
	RecordCircuitBreakerRequest("cacheadapter-rest", "success")
	SetCircuitBreakerState("cacheadapter-rest", 0)

	require.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("cacheadapter-rest", "success")))
	require.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("cacheadapter-rest")))
}
