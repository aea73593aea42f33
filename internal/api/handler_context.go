// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"

	"github.com/katameow/recsys-go/internal/logging"

	"github.com/katameow/recsys-go/internal/authctx"
	"github.com/katameow/recsys-go/internal/config"
	"github.com/katameow/recsys-go/internal/jobregistry"
	"github.com/katameow/recsys-go/internal/orchestrator"
	"github.com/katameow/recsys-go/internal/rescache"
	"github.com/katameow/recsys-go/internal/timeline"
	"github.com/katameow/recsys-go/internal/websocket"
)

// TaskRunner dispatches a submitted search's background execution. It
// abstracts over a bare goroutine and a supervised worker pool so the
// dispatch layer doesn't need to know which one cmd/server wires in.
type TaskRunner interface {
	Go(fn func())
}

// goroutineRunner is the default TaskRunner: every task gets its own
// unsupervised goroutine.
type goroutineRunner struct{}

func (goroutineRunner) Go(fn func()) { go fn() }

// Handler holds every collaborator the dispatch layer's handlers are
// wired against. Unlike the teacher's Handler, this carries no
// database or sync-manager handle — the orchestrator, the cache, and
// the job registry are this core's entire state surface.
type Handler struct {
	orch        *orchestrator.Orchestrator
	registry    *jobregistry.Registry
	bus         *timeline.Bus
	cache       *rescache.MultiTierCache
	authManager *authctx.Manager
	admitter    *authctx.Admitter
	cfg         *config.Config
	runner      TaskRunner
	startTime   time.Time
	wsHub       *websocket.Hub
}

// SetDashboardHub wires the internal-dashboard WebSocket push transport
// (see DashboardWS). It is optional: a Handler with no hub rejects
// WebSocket upgrade attempts with 503, leaving the SSE endpoint as the
// only timeline transport.
func (h *Handler) SetDashboardHub(hub *websocket.Hub) {
	h.wsHub = hub
}

// NewHandler constructs a Handler. runner may be nil to default to an
// unsupervised goroutine per submission.
func NewHandler(orch *orchestrator.Orchestrator, registry *jobregistry.Registry, bus *timeline.Bus, mtc *rescache.MultiTierCache, authManager *authctx.Manager, admitter *authctx.Admitter, cfg *config.Config, runner TaskRunner) *Handler {
	if runner == nil {
		runner = goroutineRunner{}
	}
	return &Handler{
		orch:        orch,
		registry:    registry,
		bus:         bus,
		cache:       mtc,
		authManager: authManager,
		admitter:    admitter,
		cfg:         cfg,
		runner:      runner,
		startTime:   time.Now(),
	}
}

// goAsync dispatches fn through the configured TaskRunner.
func (h *Handler) goAsync(fn func()) {
	h.runner.Go(fn)
}

// Authenticate resolves the bearer token on every request into an
// authctx.AuthContext and attaches it to the request context,
// defaulting to an anonymous guest identity when none is presented —
// admission policy, not authentication, is what decides whether a
// guest may proceed.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, err := h.authManager.FromRequest(r)
		if err != nil && err != authctx.ErrNoCredentials {
			logging.Warn().Err(err).Str("path", r.URL.Path).Msg("dispatch: credential validation failed, treating as guest")
		}
		ctx := authctx.WithContext(r.Context(), ac)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCacheAdmin returns a middleware gating the admin cache CRUD
// endpoints on the Casbin admin.cache/act permission, mirroring the
// teacher's RequireAdminMiddleware but scoped to the one resource the
// search core's policy model actually names.
func (h *Handler) RequireCacheAdmin(act string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := authctx.FromContext(r.Context())
			allowed, err := h.admitter.CanManageCache(ac, act)
			if err != nil {
				NewResponseWriter(w, r).InternalError("authorization check failed")
				return
			}
			if !allowed {
				logging.Warn().Str("subject", ac.Subject).Str("role", ac.Role).Str("act", act).Str("path", r.URL.Path).Msg("dispatch: cache admin access denied")
				NewResponseWriter(w, r).Forbidden("admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
