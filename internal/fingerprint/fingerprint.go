// Package fingerprint derives the stable query_hash used as the
// correlation key across the job registry, timeline bus, and
// multi-tier cache.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Bounds on the two tunable retrieval parameters.
const (
	MinProductsK          = 1
	MaxProductsK          = 50
	MinReviewsPerProduct  = 0
	MaxReviewsPerProduct  = 25
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ValidationError reports a fingerprint input that is outside the
// accepted bounds. The dispatch layer maps it to HTTP 400.
type ValidationError struct {
	Field   string
	Value   int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fingerprint: %s=%d: %s", e.Field, e.Value, e.Message)
}

// Fingerprint is the canonicalized, parameterized identity of a search
// request before hashing.
type Fingerprint struct {
	Query               string
	ProductsK           int
	ReviewsPerProduct   int
	Extra               map[string]any
}

// Canonicalize lower-cases, trims, and collapses internal whitespace
// runs to a single space.
func Canonicalize(query string) string {
	trimmed := strings.TrimSpace(query)
	collapsed := whitespaceRun.ReplaceAllString(trimmed, " ")
	return strings.ToLower(collapsed)
}

// Validate checks products_k and reviews_per_product against their
// accepted ranges.
func (f Fingerprint) Validate() error {
	if f.ProductsK < MinProductsK || f.ProductsK > MaxProductsK {
		return &ValidationError{
			Field:   "products_k",
			Value:   f.ProductsK,
			Message: fmt.Sprintf("must be in [%d,%d]", MinProductsK, MaxProductsK),
		}
	}
	if f.ReviewsPerProduct < MinReviewsPerProduct || f.ReviewsPerProduct > MaxReviewsPerProduct {
		return &ValidationError{
			Field:   "reviews_per_product",
			Value:   f.ReviewsPerProduct,
			Message: fmt.Sprintf("must be in [%d,%d]", MinReviewsPerProduct, MaxReviewsPerProduct),
		}
	}
	return nil
}

// canonicalJSON renders a map with sorted keys and no whitespace,
// recursing into nested maps so ordering is deterministic at every
// level.
func canonicalJSON(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// normalize converts arbitrary map types into sorted-key ordered
// structures. goccy/go-json marshals map[string]any in sorted-key
// order already, but nested maps built from interface{} values parsed
// elsewhere are normalized recursively for safety.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			nv, err := normalize(val[k])
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			nv, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return val, nil
	}
}

// Hash builds the canonical fingerprint JSON and its SHA-256 hex
// digest (query_hash). canonical is returned for callers that also
// need the exact serialized bytes (e.g. for debugging or the init
// endpoint's echo field).
func Hash(f Fingerprint) (hash string, canonical string, err error) {
	if verr := f.Validate(); verr != nil {
		return "", "", verr
	}

	payload := map[string]any{
		"query":               Canonicalize(f.Query),
		"productsK":           f.ProductsK,
		"reviewsPerProduct":   f.ReviewsPerProduct,
	}
	for k, v := range f.Extra {
		payload[k] = v
	}

	data, err := canonicalJSON(payload)
	if err != nil {
		return "", "", fmt.Errorf("fingerprint: marshal: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), string(data), nil
}

// CanonicalHash hashes just the canonicalized query text, used by the
// precomputed/canonical tier's query->slug lookup keys (§3).
func CanonicalHash(query string) string {
	sum := sha256.Sum256([]byte(Canonicalize(query)))
	return hex.EncodeToString(sum[:])
}
