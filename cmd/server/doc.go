// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package main is the entry point for the search orchestration core's
HTTP server.

# Application Architecture

The server initializes components in the following order:

 1. Configuration: load settings from environment variables and an
    optional config file (Koanf v2)
 2. Logging: initialize zerolog per the loaded configuration
 3. Cache Adapter: build the memory, Redis, or REST-backed key-value
    store selected by CACHE_BACKEND
 4. Timeline Bus: build the Redis Streams or in-memory structured
    event backend selected by TIMELINE_BACKEND
 5. Orchestrator: wire the multi-tier cache, timeline bus, search
    engine, RAG pipeline, and Casbin admitter
 6. Dispatch layer: construct the Handler and Chi router
 7. HTTP server: either a bare *http.Server run directly, or (with
    -supervised) a suture supervisor tree running the HTTP server
    alongside a bounded worker pool for submitted-search execution

# Dev Mode

Without a warehouse-backed search engine or LLM-backed analysis
pipeline to wire in, -fake-engine substitutes the deterministic
internal/orchestrator/enginefake and internal/orchestrator/ragfake test
doubles, letting the full submit/poll/stream flow run end-to-end
against synthetic data.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM, waiting
for in-flight requests to finish before exiting. Submitted-search
tasks are drained only under -supervised, by the worker pool; the
default goroutine-per-submission runner's tasks are not waited for.
*/
package main
