// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/katameow/recsys-go/internal/websocket"
)

func newTestDashboardHandler(t *testing.T) (*Handler, *websocket.Hub) {
	t.Helper()
	h := newTestCacheAdminHandler(t)
	hub := websocket.NewHub()
	h.SetDashboardHub(hub)
	return h, hub
}

func dialDashboard(t *testing.T, server *httptest.Server) *gorillaws.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	return conn
}

func TestDashboardWS_RejectsWhenHubNotConfigured(t *testing.T) {
	h := newTestCacheAdminHandler(t)

	server := httptest.NewServer(http.HandlerFunc(h.DashboardWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail when no dashboard hub is configured")
	}
	if resp == nil {
		t.Fatal("expected an HTTP response even on a failed upgrade")
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestDashboardWS_BroadcastsTimelineEventToConnectedClient(t *testing.T) {
	h, hub := newTestDashboardHandler(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.RunWithContext(ctx)

	server := httptest.NewServer(http.HandlerFunc(h.DashboardWS))
	defer server.Close()

	conn := dialDashboard(t, server)
	defer conn.Close()

	// Give the hub time to process the registration before broadcasting.
	time.Sleep(20 * time.Millisecond)

	hub.BroadcastTimelineEvent(websocket.TimelineEventData{
		QueryHash: "h1",
		Step:      "search.bq.completed",
		Sequence:  1,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Payload:   map[string]any{"count": 3},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if !strings.Contains(string(message), websocket.MessageTypeTimelineEvent) {
		t.Errorf("message = %s, want it to contain %q", message, websocket.MessageTypeTimelineEvent)
	}
	if !strings.Contains(string(message), "search.bq.completed") {
		t.Errorf("message = %s, want it to contain the step name", message)
	}
}
