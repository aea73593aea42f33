package timeline

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisBackend drives Redis Streams (XADD/XREAD) for the structured
// backend, grounded on the reference implementation's
// publish_timeline_event/read_timeline_events, which issue the
// equivalent XADD ... MAXLEN ~ n / XREAD BLOCK ms COUNT n pair and then
// EXPIRE the stream key on every publish.
type RedisBackend struct {
	client *goredis.Client
}

// NewRedisBackend wraps an existing client, typically the same client
// the cache adapter's Redis backend already holds open.
func NewRedisBackend(client *goredis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Append(ctx context.Context, hash string, encoded []byte) (string, error) {
	key := streamKey(hash)

	id, err := b.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: key,
		MaxLen: DefaultStreamMaxLen,
		Approx: true,
		Values: map[string]any{"data": encoded},
	}).Result()
	if err != nil {
		return "", err
	}

	// Best-effort TTL refresh; a failure here does not invalidate the
	// append that already succeeded.
	b.client.Expire(ctx, key, DefaultStreamTTL)

	return id, nil
}

func (b *RedisBackend) Read(ctx context.Context, hash string, lastID string, opts ReadOptions) ([]rawEntry, error) {
	if lastID == "" {
		lastID = "0-0"
	}
	count := opts.Count
	if count <= 0 {
		count = DefaultReadOptions().Count
	}

	args := &goredis.XReadArgs{
		Streams: []string{streamKey(hash), lastID},
		Count:   int64(count),
	}
	if opts.BlockMS > 0 {
		args.Block = time.Duration(opts.BlockMS) * time.Millisecond
	}

	streams, err := b.client.XRead(ctx, args).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(streams) == 0 {
		return nil, nil
	}

	entries := make([]rawEntry, 0, len(streams[0].Messages))
	for _, msg := range streams[0].Messages {
		entries = append(entries, rawEntry{StreamID: msg.ID, Data: msg.Values})
	}
	return entries, nil
}

func (b *RedisBackend) Clear(ctx context.Context, hash string) error {
	return b.client.Del(ctx, streamKey(hash)).Err()
}
