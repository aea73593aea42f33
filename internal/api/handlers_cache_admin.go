// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/katameow/recsys-go/internal/apierr"
)

// cachePutRequest is the body accepted by the precomputed store
// endpoint: slug identifies the entry, query is the raw
// (pre-canonicalization) query text, and response is the opaque
// serialized SearchResponse payload stored verbatim.
type cachePutRequest struct {
	Slug     string `json:"slug" validate:"required"`
	Query    string `json:"query" validate:"required"`
	Response []byte `json:"response" validate:"required"`
	TTL      int64  `json:"ttl_seconds,omitempty"`
}

func (h *Handler) guardCacheEnabled(w http.ResponseWriter, r *http.Request) bool {
	if h.cfg != nil && h.cfg.Cache.Enabled {
		return true
	}
	respondDomainError(w, r, apierr.ErrCacheDisabled)
	return false
}

// ListCache returns every entry in the precomputed and canonical
// tiers, merged.
func (h *Handler) ListCache(w http.ResponseWriter, r *http.Request) {
	if !h.guardCacheEnabled(w, r) {
		return
	}
	items, err := h.cache.ListPrecomputed(r.Context())
	if err != nil {
		NewResponseWriter(w, r).InternalError("failed to list cache entries")
		return
	}
	NewResponseWriter(w, r).Success(items)
}

// StorePrecomputed writes a TTL-bounded precomputed tier entry.
func (h *Handler) StorePrecomputed(w http.ResponseWriter, r *http.Request) {
	if !h.guardCacheEnabled(w, r) {
		return
	}
	var req cachePutRequest
	if err := decodeJSONBody(r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest("malformed request body")
		return
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = h.cache.TTLSeconds(true)
	}
	if err := h.cache.StorePrecomputed(r.Context(), req.Slug, req.Query, req.Response, ttl); err != nil {
		NewResponseWriter(w, r).InternalError("failed to store precomputed entry")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// DeleteCache removes a slug from both tiers. Idempotent: a missing
// slug still reports success.
func (h *Handler) DeleteCache(w http.ResponseWriter, r *http.Request) {
	if !h.guardCacheEnabled(w, r) {
		return
	}
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		NewResponseWriter(w, r).BadRequest("slug required")
		return
	}
	query := r.URL.Query().Get("query")
	if err := h.cache.DeletePrecomputed(r.Context(), slug, query); err != nil {
		NewResponseWriter(w, r).InternalError("failed to delete cache entry")
		return
	}
	NewResponseWriter(w, r).Success(map[string]any{
		"slug":    slug,
		"removed": true,
		"query":   query,
	})
}
