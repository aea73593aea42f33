// Package enginefake is a deterministic SearchEngine test double used
// by the orchestrator's own tests and by cmd/server's -fake-engine dev
// mode, in place of the warehouse-backed hybrid search collaborator
// this repository does not ship.
package enginefake

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/katameow/recsys-go/internal/models"
	"github.com/katameow/recsys-go/internal/orchestrator"
)

// Engine returns deterministic, query-derived candidates so the same
// query always produces the same ranking.
type Engine struct {
	// Catalogue is consulted first; if it contains candidates, they are
	// ranked by score and cut to productsK, without filtering by query.
	// When empty, synthetic candidates are generated instead.
	Catalogue []models.ProductCandidate
}

// New constructs an Engine with no catalogue (synthetic mode).
func New() *Engine {
	return &Engine{}
}

// HybridSearch emits the search.bq.started/search.bq.completed and
// search.reviews.selected substeps spec.md §4.7 names for the engine's
// own internal phases, then returns up to productsK candidates.
func (e *Engine) HybridSearch(ctx context.Context, query string, productsK, reviewsPerProduct int, emit orchestrator.TimelineEmitFunc) ([]models.ProductCandidate, error) {
	if emit != nil {
		emit(ctx, "search.bq.started", map[string]any{"query": query})
	}

	candidates := e.Catalogue
	if len(candidates) == 0 {
		candidates = synthesize(query, productsK)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scoreOf(candidates[i]) > scoreOf(candidates[j])
	})
	if len(candidates) > productsK {
		candidates = candidates[:productsK]
	}

	if emit != nil {
		emit(ctx, "search.bq.completed", map[string]any{"result_count": len(candidates)})
	}

	for i := range candidates {
		if len(candidates[i].Reviews) > reviewsPerProduct {
			candidates[i].Reviews = candidates[i].Reviews[:reviewsPerProduct]
		}
		if emit != nil {
			emit(ctx, "search.reviews.selected", map[string]any{
				"asin":         candidates[i].ASIN,
				"review_count": len(candidates[i].Reviews),
			})
		}
	}

	return candidates, nil
}

func scoreOf(c models.ProductCandidate) float64 {
	if c.CombinedScore != nil {
		return *c.CombinedScore
	}
	if c.Similarity != nil {
		return *c.Similarity
	}
	return 0
}

// synthesize builds a small, deterministic candidate set from query so
// tests and dev-mode runs never depend on an external catalogue.
func synthesize(query string, productsK int) []models.ProductCandidate {
	slug := strings.ToLower(strings.Join(strings.Fields(query), "-"))
	if slug == "" {
		slug = "item"
	}

	n := productsK
	if n <= 0 {
		n = 1
	}
	if n > 25 {
		n = 25
	}

	out := make([]models.ProductCandidate, 0, n)
	for i := 0; i < n; i++ {
		score := 1.0 - float64(i)*0.01
		rating := 4.5 - float64(i)*0.02
		count := 100 - i
		out = append(out, models.ProductCandidate{
			ASIN:            fmt.Sprintf("B0FAKE%04d", i),
			ProductTitle:    fmt.Sprintf("%s result %d", query, i+1),
			Description:     fmt.Sprintf("A synthetic candidate generated for %q.", slug),
			Categories:      "synthetic",
			Similarity:      floatPtr(score),
			AvgRating:       floatPtr(rating),
			RatingCount:     intPtr(count),
			CombinedScore:   floatPtr(score),
			Reviews:         nil,
		})
	}
	return out
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
