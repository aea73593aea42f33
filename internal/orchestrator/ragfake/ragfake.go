// Package ragfake is a deterministic RAGPipeline test double used by
// the orchestrator's own tests and by cmd/server's -fake-engine dev
// mode, in place of the LLM-backed analysis collaborator this
// repository does not ship.
package ragfake

import (
	"context"
	"fmt"

	"github.com/katameow/recsys-go/internal/models"
	"github.com/katameow/recsys-go/internal/orchestrator"
)

// Pipeline produces a fixed-shape analysis per product without calling
// out to any LLM.
type Pipeline struct {
	Batching  bool
	ChunkSize int
}

// New constructs a Pipeline with batching enabled and a chunk size of
// 10, matching the reference implementation's defaults.
func New() *Pipeline {
	return &Pipeline{Batching: true, ChunkSize: 10}
}

// BatchingEnabled reports whether p batches its underlying calls.
func (p *Pipeline) BatchingEnabled() bool { return p.Batching }

// DefaultChunkSize reports the batch size p uses when BatchingEnabled
// is true.
func (p *Pipeline) DefaultChunkSize() int { return p.ChunkSize }

// GenerateBatchExplanations emits a rag.product.analysis event per
// product as it's processed, then returns one ProductAnalysis per
// candidate keyed by asin.
func (p *Pipeline) GenerateBatchExplanations(ctx context.Context, query string, products []models.ProductCandidate, emit orchestrator.TimelineEmitFunc) ([]models.ProductAnalysis, error) {
	out := make([]models.ProductAnalysis, 0, len(products))
	for _, product := range products {
		analysis := models.ProductAnalysis{
			"asin":    product.ASIN,
			"summary": fmt.Sprintf("%s matches the query %q.", product.ProductTitle, query),
			"pros":    []string{"relevant to query"},
			"cons":    []string{},
		}
		out = append(out, analysis)
		if emit != nil {
			emit(ctx, "rag.product.analysis", map[string]any{"asin": product.ASIN})
		}
	}
	return out, nil
}
