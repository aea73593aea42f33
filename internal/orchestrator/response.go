package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/katameow/recsys-go/internal/models"
)

// buildResponse merges a candidate list with its per-ASIN analyses,
// mirroring the reference implementation's asin-keyed response
// assembly: a candidate with no matching analysis still appears in the
// response, just without an Analysis attached.
func buildResponse(query string, candidates []models.ProductCandidate, analyses []models.ProductAnalysis) models.SearchResponse {
	byASIN := make(map[string]models.ProductAnalysis, len(analyses))
	for _, a := range analyses {
		asin, _ := a["asin"].(string)
		if asin == "" {
			continue
		}
		byASIN[asin] = a
	}

	results := make([]models.ProductSearchResult, 0, len(candidates))
	for _, c := range candidates {
		result := models.ProductSearchResult{
			ASIN:            c.ASIN,
			ProductTitle:    c.ProductTitle,
			Description:     c.Description,
			Categories:      c.Categories,
			Similarity:      c.Similarity,
			AvgRating:       c.AvgRating,
			RatingCount:     c.RatingCount,
			DisplayedRating: c.DisplayedRating,
			CombinedScore:   c.CombinedScore,
			Reviews:         c.Reviews,
		}
		if analysis, ok := byASIN[c.ASIN]; ok {
			result.Analysis = &analysis
		}
		results = append(results, result)
	}

	return models.SearchResponse{Query: query, Count: len(results), Results: results}
}

// summarizeCandidates returns up to limit candidate summaries for the
// search.engine.candidates timeline event.
func summarizeCandidates(candidates []models.ProductCandidate, limit int) []map[string]any {
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]map[string]any, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, map[string]any{
			"asin":           c.ASIN,
			"title":          c.ProductTitle,
			"similarity":     c.Similarity,
			"combined_score": c.CombinedScore,
			"avg_rating":     c.AvgRating,
			"rating_count":   c.RatingCount,
			"review_count":   len(c.Reviews),
		})
	}
	return out
}

// summarizeResponse builds the response.completed summary payload:
// source/scope/key/result_count, top 5 results by two different
// projections, and a response_hash that falls back to "unknown" if the
// response can't be serialized deterministically.
func summarizeResponse(resp models.SearchResponse, source string, adm Admission) map[string]any {
	limit := 5
	if limit > len(resp.Results) {
		limit = len(resp.Results)
	}

	topResults := make([]map[string]any, 0, limit)
	summaryResults := make([]map[string]any, 0, limit)
	for _, r := range resp.Results[:limit] {
		topResults = append(topResults, map[string]any{
			"asin":           r.ASIN,
			"title":          r.ProductTitle,
			"combined_score": r.CombinedScore,
			"similarity":     r.Similarity,
		})
		summaryResults = append(summaryResults, map[string]any{
			"asin":             r.ASIN,
			"analysis_present": r.Analysis != nil,
		})
	}

	return map[string]any{
		"source":       source,
		"cache_scope":  adm.Scope,
		"cache_key":    adm.QueryHash,
		"result_count": resp.Count,
		"top_results":  topResults,
		"response": map[string]any{
			"count":   resp.Count,
			"results": summaryResults,
		},
		"response_hash": responseHash(resp),
	}
}

// responseHash sha256-hashes the response as sorted-key, compact JSON,
// matching the reference implementation's dump-response-then-hash
// approach. It returns "unknown" on any marshal error rather than
// failing the request.
func responseHash(resp models.SearchResponse) string {
	blob, err := json.Marshal(resp)
	if err != nil {
		return "unknown"
	}

	var generic map[string]any
	if err := json.Unmarshal(blob, &generic); err != nil {
		return "unknown"
	}
	sorted, err := marshalSortedKeys(generic)
	if err != nil {
		return "unknown"
	}

	sum := sha256.Sum256(sorted)
	return hex.EncodeToString(sum[:])
}

// marshalSortedKeys produces compact JSON with object keys in sorted
// order at every nesting level, matching Python's
// json.dumps(..., sort_keys=True, separators=(",", ":")).
func marshalSortedKeys(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				out = append(out, ',')
			}
			keyBytes, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			out = append(out, keyBytes...)
			out = append(out, ':')
			valBytes, err := marshalSortedKeys(val[k])
			if err != nil {
				return nil, err
			}
			out = append(out, valBytes...)
		}
		out = append(out, '}')
		return out, nil
	case []any:
		out := []byte{'['}
		for i, item := range val {
			if i > 0 {
				out = append(out, ',')
			}
			itemBytes, err := marshalSortedKeys(item)
			if err != nil {
				return nil, err
			}
			out = append(out, itemBytes...)
		}
		out = append(out, ']')
		return out, nil
	default:
		return json.Marshal(val)
	}
}
