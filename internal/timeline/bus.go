package timeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	json "github.com/goccy/go-json"

	"github.com/katameow/recsys-go/internal/logging"
	"github.com/katameow/recsys-go/internal/scrubber"
)

// PublishOptions carries the optional per-call overrides publish(...)
// accepts in spec.md §4.4.
type PublishOptions struct {
	ScrubberSettings *scrubber.Settings
	EventID          string
}

// Bus is the C4 Timeline Bus: it drives a preferred structured backend
// with transparent, logged fallback to an in-memory backend on any
// backend error.
type Bus struct {
	preferred  Backend
	fallback   *MemoryBackend
	subscriber func(Event)
}

// Subscribe registers fn to be called, best-effort, with every event
// this Bus publishes — the hook cmd/server uses to mirror the durable
// timeline stream onto the ambient dashboard WebSocket push transport.
// Only one subscriber is supported; call before serving traffic.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subscriber = fn
}

// NewBus constructs a Bus. preferred may be nil, in which case the
// fallback backend is used directly with no failover logging.
func NewBus(preferred Backend, fallback *MemoryBackend) *Bus {
	if fallback == nil {
		fallback = NewMemoryBackend()
	}
	return &Bus{preferred: preferred, fallback: fallback}
}

// Publish scrubs payload, builds an Event, and appends it to the
// preferred backend, falling back transparently to the in-memory
// backend on any backend error.
func (b *Bus) Publish(ctx context.Context, hash, step string, payload map[string]any, opts PublishOptions) (Event, error) {
	settings := scrubber.DefaultTimelineScrubber
	if opts.ScrubberSettings != nil {
		settings = *opts.ScrubberSettings
	}
	scrubbed := scrubber.Scrub(payload, settings, nil)

	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	now := time.Now().UTC()

	wire := map[string]any{
		"event_id":   eventID,
		"query_hash": hash,
		"step":       step,
		"timestamp":  now.Format(time.RFC3339Nano),
		"payload":    scrubbed,
	}
	encoded, err := json.Marshal(wire)
	if err != nil {
		return Event{}, err
	}

	var streamID string
	if b.preferred != nil {
		streamID, err = b.preferred.Append(ctx, hash, encoded)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("query_hash", hash).Msg("timeline: structured backend append failed, falling back to memory")
		}
	}
	if b.preferred == nil || err != nil {
		streamID, err = b.fallback.Append(ctx, hash, encoded)
	}
	if err != nil {
		return Event{}, err
	}

	millis, seq := parseStreamID(streamID)
	event := Event{
		EventID:         eventID,
		QueryHash:       hash,
		Step:            step,
		Timestamp:       now,
		Sequence:        seq,
		StreamID:        streamID,
		StreamTimestamp: millis,
		Payload:         scrubbed,
	}
	if b.subscriber != nil {
		b.subscriber(event)
	}
	return event, nil
}

// Read returns events for hash after lastID, tolerating the
// heterogeneous field shapes a non-conforming producer might leave in
// the stream.
func (b *Bus) Read(ctx context.Context, hash, lastID string, opts ReadOptions) ([]Event, error) {
	var raw []rawEntry
	var err error
	if b.preferred != nil {
		raw, err = b.preferred.Read(ctx, hash, lastID, opts)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("query_hash", hash).Msg("timeline: structured backend read failed, falling back to memory")
		}
	}
	if b.preferred == nil || err != nil {
		raw, err = b.fallback.Read(ctx, hash, lastID, opts)
		if err != nil {
			return nil, err
		}
	}

	events := make([]Event, 0, len(raw))
	for _, entry := range raw {
		event, ok := decodeEntry(entry)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Clear removes hash's entries from both backends.
func (b *Bus) Clear(ctx context.Context, hash string) error {
	if b.preferred != nil {
		_ = b.preferred.Clear(ctx, hash)
	}
	return b.fallback.Clear(ctx, hash)
}

func decodeEntry(entry rawEntry) (Event, bool) {
	raw, ok := extractDataField(entry.Data)
	if !ok {
		return Event{}, false
	}
	text, ok := coerceMessagePayload(raw)
	if !ok {
		return Event{}, false
	}

	var wire struct {
		EventID   string         `json:"event_id"`
		QueryHash string         `json:"query_hash"`
		Step      string         `json:"step"`
		Timestamp time.Time      `json:"timestamp"`
		Payload   map[string]any `json:"payload"`
	}
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Event{}, false
	}

	millis, seq := parseStreamID(entry.StreamID)
	return Event{
		EventID:         wire.EventID,
		QueryHash:       wire.QueryHash,
		Step:            wire.Step,
		Timestamp:       wire.Timestamp,
		Sequence:        seq,
		StreamID:        entry.StreamID,
		StreamTimestamp: millis,
		Payload:         wire.Payload,
	}, true
}
