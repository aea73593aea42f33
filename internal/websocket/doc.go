// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package websocket provides a push-based alternate transport for timeline
events, alongside the pull-based SSE stream in internal/api.

Internal dashboards that want a live feed of every step the orchestrator
emits for a query connect here instead of polling or holding open an SSE
response per query. It uses the gorilla/websocket library with a
hub-client architecture for efficient broadcast.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Message: Typed message structure for different event types

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: Reads from WebSocket, handles pings
  - writePump: Writes to WebSocket, sends pongs

Message Types:

The following message types are supported:

  - timeline_event: one orchestrator timeline step (see internal/timeline)
  - ping / pong: keepalive

Usage Example - Server:

	import (
	    "github.com/katameow/recsys-go/internal/websocket"
	    "net/http"
	)

	// Create hub
	hub := websocket.NewHub()
	go hub.Run()

	// WebSocket upgrade endpoint
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
	    conn, err := upgrader.Upgrade(w, r, nil) // a gorilla websocket.Upgrader
	    if err != nil {
	        return
	    }
	    client := websocket.NewClient(hub, conn)
	    hub.Register <- client
	    client.Start()
	})

	// Push a timeline event as the orchestrator emits it
	hub.BroadcastTimelineEvent(websocket.TimelineEventData{
	    QueryHash: hash,
	    Step:      "search.engine.started",
	    Sequence:  seq,
	})

Usage Example - Client (JavaScript):

	// Connect to WebSocket
	const ws = new WebSocket('ws://localhost:3857/ws');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);

	    if (msg.type === 'timeline_event') {
	        console.log(`${msg.data.query_hash}: ${msg.data.step}`);
	    }
	};

Performance Characteristics:

  - Broadcast latency: <10ms for typical payloads
  - Max clients: 1000+ concurrent connections tested
  - Ping interval: 54 seconds (keeps connection alive)
  - Write deadline: 10 seconds per message
  - Message size limit: 512KB (fixed constant)

Connection Lifecycle:

1. Client connects via HTTP upgrade
2. Hub registers client
3. Client starts read/write goroutines
4. Hub broadcasts messages to all clients
5. Client disconnects (network error or explicit close)
6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Error Handling:

The package handles:
  - Connection upgrades failures: Returns HTTP 400
  - Read errors: Closes connection gracefully
  - Write errors: Removes client from hub
  - Ping/pong timeout: Detects dead connections (60s timeout)

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 54 seconds (ping interval, 9/10 of pongWait)
  - maxMessageSize: 512 KB (max message size)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/api: HTTP handlers, including the SSE timeline stream
  - internal/timeline: the event stream this package re-broadcasts
*/
package websocket
