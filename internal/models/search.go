// Package models holds the wire-level shapes the orchestrator and
// dispatch layer exchange. The core treats a ProductSearchResult's
// ranking and analysis fields as opaque payload handed back verbatim
// from the external search engine and RAG pipeline collaborators; only
// SearchResponse.Count and SearchResponse.Query are interpreted by the
// core itself.
package models

import "time"

// ProductReview is one customer review attached to a product result.
type ProductReview struct {
	Content           string     `json:"content"`
	Rating            *int       `json:"rating,omitempty"`
	VerifiedPurchase  *bool      `json:"verified_purchase,omitempty"`
	UserID            *string    `json:"user_id,omitempty"`
	Timestamp         *time.Time `json:"timestamp,omitempty"`
	Similarity        *float64   `json:"similarity,omitempty"`
	HasRating         *int       `json:"has_rating,omitempty"`
}

// ProductAnalysis is the RAG pipeline's opaque per-product output. Its
// shape is defined by the external collaborator, not this core; it is
// carried as a free-form map so the codec round-trips it bit-identically
// regardless of what the pipeline produces.
type ProductAnalysis map[string]any

// ProductCandidate is what the SearchEngine collaborator returns per
// product before analysis is attached.
type ProductCandidate struct {
	ASIN             string          `json:"asin"`
	ProductTitle     string          `json:"product_title"`
	Description      string          `json:"description"`
	Categories       string          `json:"categories"`
	Similarity       *float64        `json:"similarity,omitempty"`
	AvgRating        *float64        `json:"avg_rating,omitempty"`
	RatingCount      *int            `json:"rating_count,omitempty"`
	DisplayedRating  *string         `json:"displayed_rating,omitempty"`
	CombinedScore    *float64        `json:"combined_score,omitempty"`
	Reviews          []ProductReview `json:"reviews"`
}

// ProductSearchResult is a ProductCandidate with its analysis attached,
// as carried in the final SearchResponse.
type ProductSearchResult struct {
	ASIN             string           `json:"asin"`
	ProductTitle     string           `json:"product_title"`
	Description      string           `json:"description"`
	Categories       string           `json:"categories"`
	Similarity       *float64         `json:"similarity,omitempty"`
	AvgRating        *float64         `json:"avg_rating,omitempty"`
	RatingCount      *int             `json:"rating_count,omitempty"`
	DisplayedRating  *string          `json:"displayed_rating,omitempty"`
	CombinedScore    *float64         `json:"combined_score,omitempty"`
	Reviews          []ProductReview  `json:"reviews"`
	Analysis         *ProductAnalysis `json:"analysis,omitempty"`
}

// SearchResponse is the end-to-end result object, memoized in the
// multi-tier cache and returned from the result endpoint.
type SearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []ProductSearchResult `json:"results"`
}
