// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"
)

// healthStatus mirrors the teacher's models.HealthStatus shape,
// narrowed to this core's actual dependencies: the orchestrator and
// its cache, instead of a database and a media-server client.
type healthStatus struct {
	Status         string  `json:"status"`
	OrchestratorUp bool    `json:"orchestrator_up"`
	CacheEnabled   bool    `json:"cache_enabled"`
	Uptime         float64 `json:"uptime_seconds"`
}

// HealthLive reports process liveness unconditionally: if this handler
// runs at all, the process is alive.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady reports whether the orchestrator and its collaborators
// are wired and ready to accept submissions.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	orchestratorUp := h.orch != nil && h.registry != nil && h.bus != nil
	cacheEnabled := h.cfg != nil && h.cfg.Cache.Enabled

	status := "healthy"
	if !orchestratorUp {
		status = "degraded"
	}

	result := healthStatus{
		Status:         status,
		OrchestratorUp: orchestratorUp,
		CacheEnabled:   cacheEnabled,
		Uptime:         time.Since(h.startTime).Seconds(),
	}

	rw := NewResponseWriter(w, r)
	if !orchestratorUp {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "orchestrator not ready", result)
		return
	}
	rw.Success(result)
}
