package fingerprint

import "fmt"

// Key templates, unchanged from spec.md §3.
const (
	precomputedSlugPrefix    = "guest:precomputed:"
	precomputedQueryPrefix   = "guest:precomputed:query:"
	precomputedIndexKey      = "guest:precomputed:index"
	canonicalSlugPrefix      = "guest:canonical:"
	canonicalQueryPrefix     = "guest:canonical:query:"
	canonicalIndexKey        = "guest:canonical:index"
	responsePrefix           = "cache:response:v"
)

// ResponseCacheKey builds the per-request response cache key for a
// given schema version and query_hash.
func ResponseCacheKey(schemaVersion int, queryHash string) string {
	return fmt.Sprintf("%s%d:%s", responsePrefix, schemaVersion, queryHash)
}

// PrecomputedPayloadKey builds the slug->payload key for the
// TTL-bounded precomputed tier.
func PrecomputedPayloadKey(slug string) string {
	return precomputedSlugPrefix + slug
}

// PrecomputedQueryKey builds the canonical-query->slug key for the
// precomputed tier.
func PrecomputedQueryKey(canonicalQuery string) string {
	return precomputedQueryPrefix + CanonicalHash(canonicalQuery)
}

// PrecomputedIndexKey returns the single index key for the
// precomputed tier.
func PrecomputedIndexKey() string {
	return precomputedIndexKey
}

// CanonicalPayloadKey builds the slug->payload key for the persistent
// canonical tier.
func CanonicalPayloadKey(slug string) string {
	return canonicalSlugPrefix + slug
}

// CanonicalQueryKey builds the canonical-query->slug key for the
// canonical tier.
func CanonicalQueryKey(canonicalQuery string) string {
	return canonicalQueryPrefix + CanonicalHash(canonicalQuery)
}

// CanonicalIndexKey returns the single index key for the canonical
// tier.
func CanonicalIndexKey() string {
	return canonicalIndexKey
}
