// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP dispatch layer for the asynchronous
search orchestration core.

It exposes a small, focused surface: submit a search, poll or stream
its progress, and administer the precomputed cache tier. It is the
thinnest possible shell over internal/orchestrator,
internal/jobregistry, internal/timeline, and internal/rescache — this
package owns no business logic of its own beyond request decoding,
authentication, authorization, and response formatting.

Key Components:

  - Handler: holds every collaborator (orchestrator, job registry,
    timeline bus, cache, auth manager, admitter) the dispatch layer's
    handlers are wired against
  - Router: Chi route table and middleware stack integration
  - Response formatting: standardized JSON envelope with metadata
  - TaskRunner: abstracts background dispatch of a submitted search's
    execution, so cmd/server can swap a bare goroutine for a
    supervised worker pool without touching handler code

Routes:

	POST   /api/v1/search/init                    canonicalize + fingerprint, no submission
	POST   /api/v1/search                          admit and dispatch a search
	GET    /api/v1/search/result/{hash}            poll job status/result
	GET    /api/v1/timeline/{hash}                 stream job progress (SSE)
	GET    /api/v1/admin/cache/precomputed         list precomputed entries
	PUT    /api/v1/admin/cache/precomputed         write a TTL-bounded entry
	DELETE /api/v1/admin/cache/precomputed/{slug}  remove an entry from both tiers
	GET    /api/v1/health/live                     liveness probe
	GET    /api/v1/health/ready                    readiness probe
	GET    /metrics                                Prometheus scrape endpoint

The canonical cache tier has no HTTP route of its own — spec.md §6
names only the precomputed tier's CRUD surface. The canonical tier is
written by cmd/cachewarmer directly through
rescache.MultiTierCache.StoreCanonical.

Authentication and Authorization:

Every request resolves to an authctx.AuthContext via Handler.Authenticate,
defaulting to an anonymous guest identity when no bearer token is
presented. Search submission is gated by the Casbin admission policy in
internal/authctx (guest-eligible by default); the admin cache endpoints
are gated by Handler.RequireCacheAdmin against the admin.cache resource.

See Also:

  - internal/orchestrator: search admission and execution
  - internal/authctx: authentication and Casbin-backed authorization
  - internal/rescache: the multi-tier cache this package administers
  - internal/middleware: HTTP middleware components
*/
package api
