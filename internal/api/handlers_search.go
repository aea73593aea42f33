// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/katameow/recsys-go/internal/logging"

	"github.com/katameow/recsys-go/internal/apierr"
	"github.com/katameow/recsys-go/internal/authctx"
	"github.com/katameow/recsys-go/internal/fingerprint"
	"github.com/katameow/recsys-go/internal/jobregistry"
	"github.com/katameow/recsys-go/internal/metrics"
	"github.com/katameow/recsys-go/internal/models"
	"github.com/katameow/recsys-go/internal/orchestrator"
	"github.com/katameow/recsys-go/internal/validation"
)

func decodeJSONBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// Init canonicalizes and fingerprints a query without submitting it,
// so a caller can learn the query_hash it would resolve to.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	var req models.SearchInitRequest
	if err := decodeJSONBody(r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest("malformed request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	ac := authctx.FromContext(r.Context())
	extra := map[string]any{"guest": ac.Guest()}
	if !ac.Guest() {
		extra["subject"] = ac.Subject
	}

	hash, _, err := fingerprint.Hash(fingerprint.Fingerprint{
		Query:             req.Query,
		ProductsK:         req.ProductsK,
		ReviewsPerProduct: req.ReviewsPerProduct,
		Extra:             extra,
	})
	if err != nil {
		respondDomainError(w, r, fmt.Errorf("%w: %s", apierr.ErrValidation, err.Error()))
		return
	}

	NewResponseWriter(w, r).Success(models.SearchInitResponse{
		QueryHash:         hash,
		CanonicalQuery:    fingerprint.Canonicalize(req.Query),
		ProductsK:         req.ProductsK,
		ReviewsPerProduct: req.ReviewsPerProduct,
	})
}

// Submit admits a search request, marks the job pending in the
// registry, and dispatches its execution asynchronously. The caller
// polls Result or streams Timeline for progress.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest("malformed request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	ac := authctx.FromContext(r.Context())
	sub := orchestrator.SubmitRequest{
		Query:             req.Query,
		ProductsK:         req.ProductsK,
		ReviewsPerProduct: req.ReviewsPerProduct,
		ClientQueryHash:   req.QueryHash,
		BypassCache:       req.BypassCache,
		Auth:              ac,
	}

	adm, err := h.orch.Prepare(sub)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.registry.MarkPending(adm.QueryHash, adm.CanonicalQuery, map[string]any{
		"scope": adm.Scope,
	})

	h.goAsync(func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		_, err := h.orch.Execute(ctx, adm, sub, h.markCompleted)
		if err != nil {
			logging.Error().Err(err).Str("query_hash", adm.QueryHash).Msg("dispatch: search execution failed")
			h.registry.MarkFailed(adm.QueryHash, err.Error())
			metrics.RecordOrchestratorOutcome("failed")
			return
		}
		metrics.RecordOrchestratorOutcome("completed")
		metrics.RecordOrchestratorStage("total", time.Since(start))
	})

	resultURL := fmt.Sprintf("/api/v1/search/result/%s", adm.QueryHash)
	timelineURL := fmt.Sprintf("/api/v1/timeline/%s", adm.QueryHash)
	NewResponseWriter(w, r).Accepted(models.NewSearchAcceptedResponse(adm.QueryHash, resultURL, timelineURL))
}

// markCompleted is the orchestrator's BeforeCompletionHook: it records
// the result in the job registry before the orchestrator emits the
// terminal timeline event, so a client woken by the SSE stream never
// polls Result before the registry has the answer.
func (h *Handler) markCompleted(ctx context.Context, hash string, resp models.SearchResponse) error {
	h.registry.MarkCompleted(hash, resp)
	return nil
}

// Result reports a submitted job's current state: pending, completed
// with its SearchResponse, or failed with an error message.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		NewResponseWriter(w, r).BadRequest("query hash required")
		return
	}

	record, ok := h.registry.Get(hash)
	if !ok {
		respondDomainError(w, r, apierr.ErrNotFound)
		return
	}

	env := models.SearchResultEnvelope{
		QueryHash: hash,
		Status:    string(record.Status),
		Error:     record.Error,
		UpdatedAt: &record.UpdatedAt,
	}

	if record.Status == jobregistry.StatusPending {
		NewResponseWriter(w, r).Accepted(env)
		return
	}

	if record.Status == jobregistry.StatusCompleted {
		result, ok := record.Result.(models.SearchResponse)
		if !ok {
			respondDomainError(w, r, apierr.ErrResultUnavailable)
			return
		}
		env.Result = &result
	}

	NewResponseWriter(w, r).Success(env)
}
