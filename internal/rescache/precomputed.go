package rescache

import (
	"context"

	"github.com/katameow/recsys-go/internal/fingerprint"
	"github.com/katameow/recsys-go/internal/logging"
	"github.com/katameow/recsys-go/internal/metrics"
)

// LookupResult is the outcome of LookupPrecomputed: the serialized
// payload, the tier that served it ("canonical" or "precomputed"), and
// whether anything was found at all.
type LookupResult struct {
	Payload []byte
	Source  string
	Found   bool
}

// LookupPrecomputed implements spec.md §4.6's precedence: canonical
// tier first (persistent, always authoritative), then the TTL-bounded
// precomputed tier, then nil. Any backend failure at any step follows
// the configured fail-open policy.
func (c *MultiTierCache) LookupPrecomputed(ctx context.Context, rawQuery string) (LookupResult, error) {
	canonical := fingerprint.Canonicalize(rawQuery)

	if res, ok, err := c.lookupTier(ctx, canonical, fingerprint.CanonicalQueryKey, fingerprint.CanonicalPayloadKey); err != nil {
		return LookupResult{}, c.guardFailOpen("canonical", err)
	} else if ok {
		metrics.RecordCacheLookup("canonical", "hit")
		return LookupResult{Payload: res, Source: "canonical", Found: true}, nil
	}
	metrics.RecordCacheLookup("canonical", "miss")

	if res, ok, err := c.lookupTier(ctx, canonical, fingerprint.PrecomputedQueryKey, fingerprint.PrecomputedPayloadKey); err != nil {
		return LookupResult{}, c.guardFailOpen("precomputed", err)
	} else if ok {
		metrics.RecordCacheLookup("precomputed", "hit")
		return LookupResult{Payload: res, Source: "precomputed", Found: true}, nil
	}
	metrics.RecordCacheLookup("precomputed", "miss")

	return LookupResult{}, nil
}

func (c *MultiTierCache) lookupTier(ctx context.Context, canonicalQuery string, queryKeyFn, payloadKeyFn func(string) string) ([]byte, bool, error) {
	slug, ok, err := findSlugByQuery(ctx, c.adapter, queryKeyFn(canonicalQuery))
	if err != nil || !ok {
		return nil, false, err
	}
	payload, ok, err := c.adapter.Get(ctx, payloadKeyFn(slug))
	if err != nil || !ok {
		return nil, false, err
	}
	return payload, true, nil
}

// StorePrecomputed writes the slug's payload, the canonical-query->slug
// mapping, and the precomputed index entry, all bound by ttlSeconds.
func (c *MultiTierCache) StorePrecomputed(ctx context.Context, slug, query string, response []byte, ttlSeconds int64) error {
	canonical := fingerprint.Canonicalize(query)
	ttl := secondsToDuration(ttlSeconds)

	if err := c.adapter.Set(ctx, fingerprint.PrecomputedPayloadKey(slug), response, ttl); err != nil {
		return c.guardFailOpen("precomputed", err)
	}
	queryKey := fingerprint.PrecomputedQueryKey(canonical)
	if err := c.adapter.Set(ctx, queryKey, []byte(slug), ttl); err != nil {
		return c.guardFailOpen("precomputed", err)
	}

	idx, err := loadIndex(ctx, c.adapter, fingerprint.PrecomputedIndexKey())
	if err != nil {
		return c.guardFailOpen("precomputed", err)
	}
	idx[slug] = IndexEntry{Query: canonical, Hash: queryKey}
	if err := storeIndex(ctx, c.adapter, fingerprint.PrecomputedIndexKey(), idx, false, ttlSeconds); err != nil {
		return c.guardFailOpen("precomputed", err)
	}
	return nil
}

// StoreCanonical writes the slug's payload and the canonical-query->slug
// mapping persistently, and updates the canonical index persistently.
func (c *MultiTierCache) StoreCanonical(ctx context.Context, slug, query string, response []byte) error {
	canonical := fingerprint.Canonicalize(query)

	if err := c.adapter.SetPersistent(ctx, fingerprint.CanonicalPayloadKey(slug), response); err != nil {
		return c.guardFailOpen("canonical", err)
	}
	queryKey := fingerprint.CanonicalQueryKey(canonical)
	if err := c.adapter.SetPersistent(ctx, queryKey, []byte(slug)); err != nil {
		return c.guardFailOpen("canonical", err)
	}

	idx, err := loadIndex(ctx, c.adapter, fingerprint.CanonicalIndexKey())
	if err != nil {
		return c.guardFailOpen("canonical", err)
	}
	idx[slug] = IndexEntry{Query: canonical, Hash: queryKey}
	if err := storeIndex(ctx, c.adapter, fingerprint.CanonicalIndexKey(), idx, true, 0); err != nil {
		return c.guardFailOpen("canonical", err)
	}
	return nil
}

// DeletePrecomputed removes slug from both tiers. query, when empty, is
// resolved from each tier's index so the canonical-query->slug mapping
// can be found and removed too. Always idempotent: missing keys are not
// an error, so the admin delete handler reports removed=true whenever
// this returns nil.
func (c *MultiTierCache) DeletePrecomputed(ctx context.Context, slug, query string) error {
	precomputedIdx, err := loadIndex(ctx, c.adapter, fingerprint.PrecomputedIndexKey())
	if err != nil {
		return c.guardFailOpen("precomputed", err)
	}
	canonicalIdx, err := loadIndex(ctx, c.adapter, fingerprint.CanonicalIndexKey())
	if err != nil {
		return c.guardFailOpen("canonical", err)
	}

	precomputedQuery := query
	if precomputedQuery == "" {
		if entry, ok := precomputedIdx[slug]; ok {
			precomputedQuery = entry.Query
		}
	}
	canonicalQuery := query
	if canonicalQuery == "" {
		if entry, ok := canonicalIdx[slug]; ok {
			canonicalQuery = entry.Query
		}
	}

	if precomputedQuery != "" {
		if err := c.deleteQuietly(ctx, fingerprint.PrecomputedQueryKey(fingerprint.Canonicalize(precomputedQuery))); err != nil {
			return err
		}
	}
	if canonicalQuery != "" {
		if err := c.deleteQuietly(ctx, fingerprint.CanonicalQueryKey(fingerprint.Canonicalize(canonicalQuery))); err != nil {
			return err
		}
	}
	if err := c.deleteQuietly(ctx, fingerprint.PrecomputedPayloadKey(slug)); err != nil {
		return err
	}
	if err := c.deleteQuietly(ctx, fingerprint.CanonicalPayloadKey(slug)); err != nil {
		return err
	}

	delete(precomputedIdx, slug)
	delete(canonicalIdx, slug)
	if err := storeIndex(ctx, c.adapter, fingerprint.PrecomputedIndexKey(), precomputedIdx, false, int64(c.cfg.GuestTTL.Seconds())); err != nil {
		return c.guardFailOpen("precomputed", err)
	}
	if err := storeIndex(ctx, c.adapter, fingerprint.CanonicalIndexKey(), canonicalIdx, true, 0); err != nil {
		return c.guardFailOpen("canonical", err)
	}

	logging.Logger().Info().Str("slug", slug).Msg("rescache: precomputed entry deleted")
	return nil
}

func (c *MultiTierCache) deleteQuietly(ctx context.Context, key string) error {
	if err := c.adapter.Delete(ctx, key); err != nil {
		return c.guardFailOpen("precomputed", err)
	}
	return nil
}

// PrecomputedItem is one row of ListPrecomputed's merged view.
type PrecomputedItem struct {
	Slug  string `json:"slug"`
	Query string `json:"query"`
	Hash  string `json:"hash"`
	Tier  string `json:"tier"`
}

// ListPrecomputed merges both indices into the admin CRUD listing
// view, the precomputed tier's entries followed by the canonical
// tier's.
func (c *MultiTierCache) ListPrecomputed(ctx context.Context) ([]PrecomputedItem, error) {
	precomputedIdx, err := loadIndex(ctx, c.adapter, fingerprint.PrecomputedIndexKey())
	if err != nil {
		return nil, c.guardFailOpen("precomputed", err)
	}
	canonicalIdx, err := loadIndex(ctx, c.adapter, fingerprint.CanonicalIndexKey())
	if err != nil {
		return nil, c.guardFailOpen("canonical", err)
	}

	items := make([]PrecomputedItem, 0, len(precomputedIdx)+len(canonicalIdx))
	for slug, entry := range precomputedIdx {
		items = append(items, PrecomputedItem{Slug: slug, Query: entry.Query, Hash: entry.Hash, Tier: "precomputed"})
	}
	for slug, entry := range canonicalIdx {
		items = append(items, PrecomputedItem{Slug: slug, Query: entry.Query, Hash: entry.Hash, Tier: "canonical"})
	}
	return items, nil
}
