// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus metrics collection and export for the
search core.

# Overview

The package provides metrics for:
  - Cache tier hit/miss/error rates
  - Search orchestrator stage duration and terminal outcomes
  - Timeline bus publish latency and backend fallbacks
  - SSE transport connection counts
  - Job registry size by status
  - Circuit breaker state transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Usage Example

	import "github.com/katameow/recsys-go/internal/metrics"

	metrics.RecordCacheLookup("precomputed", "hit")
	metrics.RecordOrchestratorStage("engine", elapsed)
	metrics.RecordOrchestratorOutcome("completed")

# Thread Safety

All metric recording functions are thread-safe; the Prometheus client
library handles synchronization internally.
*/
package metrics
