// Package rescache implements the multi-tier response cache (C6):
// per-request response memoization plus the precomputed and canonical
// guest-facing catalogues, all composed over a cacheadapter.Adapter and
// the gzip+JSON codec.
package rescache

import (
	"context"
	"time"

	"github.com/katameow/recsys-go/internal/cacheadapter"
	"github.com/katameow/recsys-go/internal/fingerprint"
	"github.com/katameow/recsys-go/internal/logging"
	"github.com/katameow/recsys-go/internal/metrics"
)

// Config controls the cache's fail-open behavior and schema version.
type Config struct {
	SchemaVersion   int
	DefaultTTL      time.Duration
	GuestTTL        time.Duration
	FailOpen        bool
	MaxPayloadBytes int
}

// DefaultConfig mirrors the reference implementation's defaults.
func DefaultConfig() Config {
	return Config{
		SchemaVersion:   1,
		DefaultTTL:      time.Hour,
		GuestTTL:        6 * time.Hour,
		FailOpen:        true,
		MaxPayloadBytes: 2 << 20, // 2 MiB
	}
}

// MultiTierCache is C6.
type MultiTierCache struct {
	adapter cacheadapter.Adapter
	cfg     Config
}

// New constructs a MultiTierCache over adapter.
func New(adapter cacheadapter.Adapter, cfg Config) *MultiTierCache {
	return &MultiTierCache{adapter: adapter, cfg: cfg}
}

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

// TTLSeconds reports the response-cache TTL, in seconds, that would be
// applied to a store for the given guest-ness — used by the
// orchestrator to populate the response.cached timeline event.
func (c *MultiTierCache) TTLSeconds(guest bool) int64 {
	if guest {
		return int64(c.cfg.GuestTTL.Seconds())
	}
	return int64(c.cfg.DefaultTTL.Seconds())
}

// guardFailOpen applies the fail-open policy: when cfg.FailOpen, the
// error is logged and swallowed (the caller treats it as a miss); when
// false, the error propagates.
func (c *MultiTierCache) guardFailOpen(op string, err error) error {
	if err == nil {
		return nil
	}
	metrics.RecordCacheLookup(op, "error")
	if c.cfg.FailOpen {
		logging.Logger().Warn().Err(err).Str("op", op).Msg("rescache: fail-open, treating error as miss")
		return nil
	}
	return err
}

// GetCachedResponse is the simple per-request lookup with the same
// fail-open policy as LookupPrecomputed.
func (c *MultiTierCache) GetCachedResponse(ctx context.Context, queryHash string) ([]byte, bool, error) {
	key := fingerprint.ResponseCacheKey(c.cfg.SchemaVersion, queryHash)
	blob, ok, err := c.adapter.Get(ctx, key)
	if guarded := c.guardFailOpen("response", err); guarded != nil {
		return nil, false, guarded
	}
	if err != nil {
		return nil, false, nil
	}
	if !ok {
		metrics.RecordCacheLookup("response", "miss")
		return nil, false, nil
	}
	metrics.RecordCacheLookup("response", "hit")
	return blob, true, nil
}

// StoreCachedResponse refuses to store payloads exceeding
// cfg.MaxPayloadBytes, logging and returning false rather than erroring.
func (c *MultiTierCache) StoreCachedResponse(ctx context.Context, queryHash string, payload []byte, guest bool) (bool, error) {
	if len(payload) > c.cfg.MaxPayloadBytes {
		metrics.RecordCacheStoreRejection("response")
		logging.Logger().Warn().Int("bytes", len(payload)).Str("query_hash", queryHash).Msg("rescache: payload exceeds max size, not stored")
		return false, nil
	}

	ttl := c.cfg.DefaultTTL
	if guest {
		ttl = c.cfg.GuestTTL
	}
	key := fingerprint.ResponseCacheKey(c.cfg.SchemaVersion, queryHash)
	if err := c.adapter.Set(ctx, key, payload, ttl); err != nil {
		return false, c.guardFailOpen("response", err)
	}
	return true, nil
}
