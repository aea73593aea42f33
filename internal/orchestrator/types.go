// Package orchestrator drives one search request from admission
// through cache lookup, engine execution, analysis, and storage,
// emitting the per-query timeline protocol at every stage. The
// retrieval engine and LLM analysis pipeline are external
// collaborators behind the SearchEngine and RAGPipeline interfaces;
// this package never implements either itself.
package orchestrator

import (
	"context"

	"github.com/katameow/recsys-go/internal/authctx"
	"github.com/katameow/recsys-go/internal/models"
)

// TimelineEmitFunc is handed to the engine and analysis collaborators
// so their internal substeps (search.bq.started, rag.product.analysis,
// ...) land on the same per-query timeline as the orchestrator's own
// events, without those packages depending on internal/timeline
// directly.
type TimelineEmitFunc func(ctx context.Context, step string, payload map[string]any)

// SearchEngine is the external hybrid-search collaborator. Production
// deployments wire a warehouse-backed implementation behind this
// interface; this repository ships only the enginefake test double.
type SearchEngine interface {
	HybridSearch(ctx context.Context, query string, productsK, reviewsPerProduct int, emit TimelineEmitFunc) ([]models.ProductCandidate, error)
}

// RAGPipeline is the external LLM analysis collaborator. Production
// deployments wire an LLM-backed implementation behind this interface;
// this repository ships only the ragfake test double. BatchingEnabled
// and DefaultChunkSize surface the pipeline's own batching
// configuration for the rag.pipeline.started timeline event.
type RAGPipeline interface {
	GenerateBatchExplanations(ctx context.Context, query string, products []models.ProductCandidate, emit TimelineEmitFunc) ([]models.ProductAnalysis, error)
	BatchingEnabled() bool
	DefaultChunkSize() int
}

// BeforeCompletionHook is invoked after the response is built and
// before response.completed is emitted, on every path
// so the caller can persist the result into the Job Registry before
// any client observes the completion event.
type BeforeCompletionHook func(ctx context.Context, hash string, resp models.SearchResponse) error

// SubmitRequest is the orchestrator's view of a search submission,
// independent of the HTTP transport.
type SubmitRequest struct {
	Query             string
	ProductsK         int
	ReviewsPerProduct int
	ClientQueryHash   *string
	BypassCache       bool
	Auth              authctx.AuthContext
}

// Admission is the outcome of Prepare: the computed identity of a
// submission plus the scope ("guest" or "user") its cache entries are
// stored under.
type Admission struct {
	QueryHash      string
	CanonicalQuery string
	Scope          string
}

func scopeFor(guest bool) string {
	if guest {
		return "guest"
	}
	return "user"
}
