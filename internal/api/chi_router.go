// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api provides HTTP routing using Chi router (ADR-0016).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katameow/recsys-go/internal/authctx"
	"github.com/katameow/recsys-go/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router assembles the dispatch layer's HTTP surface over a Handler
// and a ChiMiddleware instance, mirroring the teacher's Router but
// scoped to search submission, result polling, timeline streaming, and
// cache administration instead of ~100 media-analytics endpoints.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter constructs a Router.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(DefaultChiMiddlewareConfig())
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(E2EDebugLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(router.handler.Authenticate)

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Search Endpoints
	// ========================
	r.Route("/api/v1/search", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Post("/init", router.handler.Init)
		r.Post("/", router.handler.Submit)
		r.Get("/result/{hash}", router.handler.Result)
	})

	// ========================
	// Timeline Endpoint
	// ========================
	r.Route("/api/v1/timeline", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/{hash}", router.handler.Timeline)
	})

	// ========================
	// Admin Cache Endpoints
	// ========================
	r.Route("/api/v1/admin/cache/precomputed", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.With(router.handler.RequireCacheAdmin(authctx.ActRead)).Get("/", router.handler.ListCache)
		r.With(router.handler.RequireCacheAdmin(authctx.ActWrite)).Put("/", router.handler.StorePrecomputed)
		r.With(router.handler.RequireCacheAdmin(authctx.ActDelete)).Delete("/{slug}", router.handler.DeleteCache)
	})

	// ========================
	// Internal Dashboard (ambient, best-effort push transport)
	// ========================
	r.Route("/internal/dashboard", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.With(router.handler.RequireCacheAdmin(authctx.ActRead)).Get("/ws", router.handler.DashboardWS)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
