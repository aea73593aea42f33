package timeline

import "context"

// rawEntry is one stream entry as returned by a Backend, before the Bus
// decodes its JSON-encoded "data" field back into an Event.
type rawEntry struct {
	StreamID string
	Data     map[string]any
}

// Backend is the storage leg a Bus drives. Implementations only know
// about raw entries keyed by query hash; the Bus owns scrubbing, event
// construction, and id bookkeeping.
type Backend interface {
	// Append stores one raw JSON-encoded event under hash and returns
	// the backend-assigned stream id.
	Append(ctx context.Context, hash string, encoded []byte) (streamID string, err error)
	// Read returns entries after lastID (or "0-0" for "from the start"),
	// up to opts.Count, blocking up to opts.BlockMS milliseconds when
	// the backend supports blocking reads and none are yet available.
	Read(ctx context.Context, hash string, lastID string, opts ReadOptions) ([]rawEntry, error)
	// Clear removes all entries for hash.
	Clear(ctx context.Context, hash string) error
}
