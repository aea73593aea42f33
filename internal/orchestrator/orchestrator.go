package orchestrator

import (
	"context"

	"github.com/katameow/recsys-go/internal/authctx"
	"github.com/katameow/recsys-go/internal/cache"
	"github.com/katameow/recsys-go/internal/logging"
	"github.com/katameow/recsys-go/internal/metrics"
	"github.com/katameow/recsys-go/internal/models"
	"github.com/katameow/recsys-go/internal/rescache"
	"github.com/katameow/recsys-go/internal/timeline"
)

// Config carries the two orchestrator-level policy switches spec.md
// §4.7/§6 names; everything else (TTLs, fail-open, payload limits) is
// owned by the MultiTierCache the orchestrator is constructed with.
type Config struct {
	EnableCache              bool
	EnableGuestHashedQueries bool
}

// Orchestrator is C7: it drives one search request from cache lookup
// through engine execution, analysis, and storage, publishing the
// per-query timeline protocol as it goes.
type Orchestrator struct {
	cache    *rescache.MultiTierCache
	bus      *timeline.Bus
	engine   SearchEngine
	rag      RAGPipeline
	admitter *authctx.Admitter
	cfg      Config
}

// New constructs an Orchestrator. admitter may be nil to skip the
// Casbin role check and rely solely on the guest-policy gate.
func New(mtc *rescache.MultiTierCache, bus *timeline.Bus, engine SearchEngine, rag RAGPipeline, admitter *authctx.Admitter, cfg Config) *Orchestrator {
	return &Orchestrator{cache: mtc, bus: bus, engine: engine, rag: rag, admitter: admitter, cfg: cfg}
}

// Execute runs the full state machine for an admitted submission:
// precomputed/canonical short-circuit, then per-request cache lookup,
// then, on a miss, the engine and analysis phases, storage, and the
// before-completion hook. The timeline events it emits follow spec.md
// §4.7's nine-step protocol exactly.
func (o *Orchestrator) Execute(ctx context.Context, adm Admission, req SubmitRequest, hook BeforeCompletionHook) (models.SearchResponse, error) {
	emit := func(step string, payload map[string]any) {
		if _, err := o.bus.Publish(ctx, adm.QueryHash, step, payload, timeline.PublishOptions{}); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("step", step).Str("query_hash", adm.QueryHash).Msg("orchestrator: timeline publish failed")
		}
	}
	emitFn := func(_ context.Context, step string, payload map[string]any) { emit(step, payload) }

	if o.cfg.EnableCache && !req.BypassCache {
		if resp, found, err := o.tryPrecomputed(ctx, req, adm, emit, hook); err != nil {
			return models.SearchResponse{}, err
		} else if found {
			return resp, nil
		}
	}

	cacheEnabled := o.cfg.EnableCache
	bypass := req.BypassCache

	var cached []byte
	var hit bool
	reason := ""
	if cacheEnabled && !bypass {
		var err error
		cached, hit, err = o.cache.GetCachedResponse(ctx, adm.QueryHash)
		if err != nil {
			metrics.RecordOrchestratorOutcome("failed")
			return models.SearchResponse{}, err
		}
		if !hit {
			reason = "not_found"
		}
	} else if bypass {
		reason = "bypass"
	} else {
		reason = "disabled"
	}

	cachePayload := map[string]any{
		"cache_key":     adm.QueryHash,
		"scope":         adm.Scope,
		"bypass_cache":  bypass,
		"cache_enabled": cacheEnabled,
	}
	if reason != "" {
		cachePayload["reason"] = reason
	}

	if hit {
		emit("search.cache.hit", cachePayload)
		metrics.RecordCacheLookup("response", "hit")

		var resp models.SearchResponse
		if err := cache.Deserialize(cached, &resp); err != nil {
			metrics.RecordOrchestratorOutcome("failed")
			return models.SearchResponse{}, err
		}
		if err := o.finish(ctx, adm.QueryHash, resp, "cache", adm, hook, emit); err != nil {
			return models.SearchResponse{}, err
		}
		metrics.RecordOrchestratorOutcome("completed")
		return resp, nil
	}
	emit("search.cache.miss", cachePayload)

	emit("search.engine.started", map[string]any{
		"query":               adm.CanonicalQuery,
		"products_k":          req.ProductsK,
		"reviews_per_product": req.ReviewsPerProduct,
		"fingerprint_extra":   fingerprintExtra(req),
		"cache_scope":         adm.Scope,
	})
	candidates, err := o.engine.HybridSearch(ctx, req.Query, req.ProductsK, req.ReviewsPerProduct, emitFn)
	if err != nil {
		metrics.RecordOrchestratorOutcome("failed")
		return models.SearchResponse{}, err
	}

	emit("search.engine.candidates", map[string]any{
		"result_count":   len(candidates),
		"top_candidates": summarizeCandidates(candidates, 5),
	})

	emit("rag.pipeline.started", map[string]any{
		"product_count":      len(candidates),
		"batching_enabled":   o.rag.BatchingEnabled(),
		"default_chunk_size": o.rag.DefaultChunkSize(),
	})
	analyses, err := o.rag.GenerateBatchExplanations(ctx, req.Query, candidates, emitFn)
	if err != nil {
		metrics.RecordOrchestratorOutcome("failed")
		return models.SearchResponse{}, err
	}
	emit("rag.pipeline.completed", map[string]any{
		"analysis_count": len(analyses),
		"product_count":  len(candidates),
	})

	resp := buildResponse(adm.CanonicalQuery, candidates, analyses)

	if cacheEnabled {
		stored, serr := o.store(ctx, adm, resp)
		if serr != nil {
			metrics.RecordOrchestratorOutcome("failed")
			return models.SearchResponse{}, serr
		}
		if stored {
			emit("response.cached", map[string]any{
				"cache_key":   adm.QueryHash,
				"ttl_seconds": o.cache.TTLSeconds(adm.Scope == "guest"),
				"scope":       adm.Scope,
			})
		}
	}

	if err := o.finish(ctx, adm.QueryHash, resp, "search", adm, hook, emit); err != nil {
		metrics.RecordOrchestratorOutcome("failed")
		return models.SearchResponse{}, err
	}
	metrics.RecordOrchestratorOutcome("completed")
	return resp, nil
}

// tryPrecomputed short-circuits the state machine on a precomputed or
// canonical catalogue hit.
func (o *Orchestrator) tryPrecomputed(ctx context.Context, req SubmitRequest, adm Admission, emit func(string, map[string]any), hook BeforeCompletionHook) (models.SearchResponse, bool, error) {
	lookup, err := o.cache.LookupPrecomputed(ctx, req.Query)
	if err != nil {
		return models.SearchResponse{}, false, err
	}
	if !lookup.Found {
		return models.SearchResponse{}, false, nil
	}

	var resp models.SearchResponse
	if err := cache.Deserialize(lookup.Payload, &resp); err != nil {
		return models.SearchResponse{}, false, err
	}

	emit("response.cached", map[string]any{
		"source":              "precomputed",
		"query":               req.Query,
		"products_k":          req.ProductsK,
		"reviews_per_product": req.ReviewsPerProduct,
	})
	if err := o.finish(ctx, adm.QueryHash, resp, "precomputed", adm, hook, emit); err != nil {
		return models.SearchResponse{}, false, err
	}
	metrics.RecordOrchestratorOutcome("completed")
	return resp, true, nil
}

// finish invokes the before-completion hook, if any, then emits
// response.completed — in that order, so the Job Registry write is
// always visible before a client can observe the completion event.
func (o *Orchestrator) finish(ctx context.Context, hash string, resp models.SearchResponse, source string, adm Admission, hook BeforeCompletionHook, emit func(string, map[string]any)) error {
	if hook != nil {
		if err := hook(ctx, hash, resp); err != nil {
			return err
		}
	}
	emit("response.completed", summarizeResponse(resp, source, adm))
	return nil
}

func (o *Orchestrator) store(ctx context.Context, adm Admission, resp models.SearchResponse) (bool, error) {
	payload, err := cache.Serialize(resp)
	if err != nil {
		return false, err
	}
	return o.cache.StoreCachedResponse(ctx, adm.QueryHash, payload, adm.Scope == "guest")
}

func fingerprintExtra(req SubmitRequest) map[string]any {
	extra := map[string]any{"guest": req.Auth.Guest()}
	if !req.Auth.Guest() {
		extra["subject"] = req.Auth.Subject
	}
	return extra
}
