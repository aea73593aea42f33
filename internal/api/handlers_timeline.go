// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/katameow/recsys-go/internal/logging"

	"github.com/katameow/recsys-go/internal/metrics"
	"github.com/katameow/recsys-go/internal/timeline"
)

const (
	timelinePollInterval = 500 * time.Millisecond
	timelineHeartbeat    = 15 * time.Second
)

// Timeline streams one query's step-by-step event trail as
// Server-Sent Events, polling the timeline bus and emitting a comment
// heartbeat every timelineHeartbeat of idle time, until the client
// disconnects.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		NewResponseWriter(w, r).BadRequest("query hash required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		NewResponseWriter(w, r).InternalError("streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.SSEConnectedClients.Inc()
	defer metrics.SSEConnectedClients.Dec()

	ctx := r.Context()
	lastID := r.Header.Get("Last-Event-ID")
	heartbeat := time.NewTimer(timelineHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		events, err := h.bus.Read(ctx, hash, lastID, timeline.ReadOptions{Count: 50, BlockMS: 0})
		if err != nil {
			logging.Warn().Err(err).Str("query_hash", hash).Msg("dispatch: timeline read failed")
			time.Sleep(timelinePollInterval)
			continue
		}

		for _, event := range events {
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\n", event.StreamID)
			fmt.Fprintf(w, "event: %s\n", event.Step)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			lastID = event.StreamID
		}
		if len(events) > 0 {
			flusher.Flush()
			heartbeat.Reset(timelineHeartbeat)
		}

		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
			heartbeat.Reset(timelineHeartbeat)
		case <-time.After(timelinePollInterval):
		}
	}
}
