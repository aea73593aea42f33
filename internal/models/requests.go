package models

import "time"

// SearchInitRequest asks the core to canonicalize and fingerprint a
// query without starting a search.
type SearchInitRequest struct {
	Query             string `json:"query" validate:"required"`
	ProductsK         int    `json:"products_k" validate:"min=1,max=50"`
	ReviewsPerProduct int    `json:"reviews_per_product" validate:"min=0,max=25"`
}

// SearchInitResponse reports the canonical form and hash a submit call
// with the same parameters would resolve to.
type SearchInitResponse struct {
	QueryHash         string `json:"query_hash"`
	CanonicalQuery    string `json:"canonical_query"`
	ProductsK         int    `json:"products_k"`
	ReviewsPerProduct int    `json:"reviews_per_product"`
}

// SearchRequest submits a query for execution, optionally pinning an
// already-known query_hash and bypassing any cache tier.
type SearchRequest struct {
	Query             string  `json:"query" validate:"required"`
	QueryHash         *string `json:"query_hash,omitempty"`
	ProductsK         int     `json:"products_k" validate:"min=1,max=50"`
	ReviewsPerProduct int     `json:"reviews_per_product" validate:"min=0,max=25"`
	BypassCache       bool    `json:"bypass_cache"`
}

// SearchAcceptedResponse is returned immediately on submission; the
// caller polls result_url or streams timeline_url for progress.
type SearchAcceptedResponse struct {
	QueryHash   string `json:"query_hash"`
	ResultURL   string `json:"result_url"`
	TimelineURL string `json:"timeline_url"`
	Status      string `json:"status"`
}

// NewSearchAcceptedResponse builds a SearchAcceptedResponse with the
// fixed "pending" status.
func NewSearchAcceptedResponse(hash, resultURL, timelineURL string) SearchAcceptedResponse {
	return SearchAcceptedResponse{
		QueryHash:   hash,
		ResultURL:   resultURL,
		TimelineURL: timelineURL,
		Status:      "pending",
	}
}

// SearchResultEnvelope wraps a job's current state for the polling
// result endpoint.
type SearchResultEnvelope struct {
	QueryHash string          `json:"query_hash"`
	Status    string          `json:"status"`
	Result    *SearchResponse `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}
