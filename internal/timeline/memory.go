package timeline

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	streamID string
	data     map[string]any
}

// MemoryBackend is an append-only per-hash buffer guarded by one mutex
// shared across all hashes, matching the reference implementation's
// single process-wide lock rather than a lock per hash.
type MemoryBackend struct {
	mu       sync.Mutex
	entries  map[string][]memoryEntry
	sequence map[string]int64
}

// NewMemoryBackend constructs an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries:  make(map[string][]memoryEntry),
		sequence: make(map[string]int64),
	}
}

func (b *MemoryBackend) Append(_ context.Context, hash string, encoded []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sequence[hash]++
	seq := b.sequence[hash]
	streamID := formatStreamID(time.Now().UTC().UnixMilli(), seq)

	b.entries[hash] = append(b.entries[hash], memoryEntry{
		streamID: streamID,
		data:     map[string]any{"data": string(encoded)},
	})
	return streamID, nil
}

func (b *MemoryBackend) Read(_ context.Context, hash string, lastID string, opts ReadOptions) ([]rawEntry, error) {
	if lastID == "" {
		lastID = "0-0"
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	count := opts.Count
	if count <= 0 {
		count = DefaultReadOptions().Count
	}

	var out []rawEntry
	for _, e := range b.entries[hash] {
		if !afterStreamID(e.streamID, lastID) {
			continue
		}
		out = append(out, rawEntry{StreamID: e.streamID, Data: e.data})
		if len(out) >= count {
			break
		}
	}
	return out, nil
}

func (b *MemoryBackend) Clear(_ context.Context, hash string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, hash)
	delete(b.sequence, hash)
	return nil
}
