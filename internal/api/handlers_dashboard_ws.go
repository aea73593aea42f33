// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"github.com/katameow/recsys-go/internal/logging"

	"github.com/katameow/recsys-go/internal/websocket"
)

// dashboardUpgrader upgrades internal-dashboard connections to
// WebSocket. It accepts every Origin, and the admin-cache role check
// this handler is mounted behind does not inspect the Origin either.
var dashboardUpgrader = gorillaws.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DashboardWS upgrades the connection and registers it with the
// dashboard hub, the best-effort push counterpart to the Timeline SSE
// endpoint. It never becomes the primary client contract: a dashboard
// client missing an event only misses a live update, it never loses
// the event itself, which remains durably readable from the Timeline
// Bus via the SSE endpoint.
func (h *Handler) DashboardWS(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "dashboard push transport is not configured", nil)
		return
	}

	conn, err := dashboardUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("dispatch: dashboard websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
