package rescache

import (
	"context"

	"github.com/katameow/recsys-go/internal/cache"
	"github.com/katameow/recsys-go/internal/cacheadapter"
)

// IndexEntry is one slug's bookkeeping row in a precomputed/canonical
// index: the canonical query text it answers and the query->slug key it
// is reachable from.
type IndexEntry struct {
	Query string `json:"query"`
	Hash  string `json:"hash"`
}

// index is slug -> IndexEntry.
type index map[string]IndexEntry

func loadIndex(ctx context.Context, adapter cacheadapter.Adapter, key string) (index, error) {
	blob, ok, err := adapter.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return index{}, nil
	}
	var idx index
	if err := cache.Deserialize(blob, &idx); err != nil {
		return nil, err
	}
	if idx == nil {
		idx = index{}
	}
	return idx, nil
}

func storeIndex(ctx context.Context, adapter cacheadapter.Adapter, key string, idx index, persistent bool, ttl int64) error {
	blob, err := cache.Serialize(idx)
	if err != nil {
		return err
	}
	if persistent {
		return adapter.SetPersistent(ctx, key, blob)
	}
	return adapter.Set(ctx, key, blob, secondsToDuration(ttl))
}

func findSlugByQuery(ctx context.Context, adapter cacheadapter.Adapter, queryKey string) (string, bool, error) {
	blob, ok, err := adapter.Get(ctx, queryKey)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(blob), true, nil
}
