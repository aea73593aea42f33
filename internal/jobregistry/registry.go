// Package jobregistry tracks the lifecycle of background search jobs,
// keyed by query_hash, for the polling result endpoint and the
// background task runner.
package jobregistry

import (
	"sync"
	"time"
)

// Status is one of the three states a job record can be in.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is a single job's tracked state. Result is an opaque payload
// (typically a models.SearchResponse value) — the registry never inspects
// it beyond nil-ness.
type Record struct {
	Query     string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Result    any
	Error     string
	Metadata  map[string]any
}

func (r Record) deepCopy() Record {
	meta := make(map[string]any, len(r.Metadata))
	for k, v := range r.Metadata {
		meta[k] = v
	}
	out := r
	out.Metadata = meta
	return out
}

// Registry is a process-lifetime singleton constructed explicitly at
// startup, mirroring the teacher's constructor-returns-instance
// convention instead of package-level global state.
type Registry struct {
	mu      sync.RWMutex
	records map[string]Record
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{records: make(map[string]Record)}
}

// MarkPending creates or resets the entry for hash: clears any prior
// result/error, sets status pending, and merges metadata into the
// existing map rather than replacing it.
func (r *Registry) MarkPending(hash, query string, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.records[hash]
	created := now
	if ok {
		created = existing.CreatedAt
	}

	merged := make(map[string]any)
	if ok {
		for k, v := range existing.Metadata {
			merged[k] = v
		}
	}
	for k, v := range metadata {
		merged[k] = v
	}

	r.records[hash] = Record{
		Query:     query,
		Status:    StatusPending,
		CreatedAt: created,
		UpdatedAt: now,
		Result:    nil,
		Error:     "",
		Metadata:  merged,
	}
}

// MarkCompleted sets status completed with result, clearing any prior
// error. Creates the entry if missing, covering a lost mark_pending
// call.
func (r *Registry) MarkCompleted(hash string, result any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.records[hash]
	created := now
	meta := map[string]any{}
	query := ""
	if ok {
		created = existing.CreatedAt
		meta = existing.Metadata
		query = existing.Query
	}

	r.records[hash] = Record{
		Query:     query,
		Status:    StatusCompleted,
		CreatedAt: created,
		UpdatedAt: now,
		Result:    result,
		Error:     "",
		Metadata:  meta,
	}
}

// MarkFailed sets status failed with the given error message. The
// prior result, if any, is conceptually unavailable once failed but is
// not physically zeroed — callers must check Status before trusting
// Result.
func (r *Registry) MarkFailed(hash string, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.records[hash]
	created := now
	meta := map[string]any{}
	query := ""
	result := existing.Result
	if ok {
		created = existing.CreatedAt
		meta = existing.Metadata
		query = existing.Query
	}

	r.records[hash] = Record{
		Query:     query,
		Status:    StatusFailed,
		CreatedAt: created,
		UpdatedAt: now,
		Result:    result,
		Error:     errMsg,
		Metadata:  meta,
	}
}

// Get returns a deep copy of the record for hash, or false if unknown.
func (r *Registry) Get(hash string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[hash]
	if !ok {
		return Record{}, false
	}
	return rec.deepCopy(), true
}

// Clear removes the entry for hash, if any.
func (r *Registry) Clear(hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, hash)
}

// ResetAll wipes every tracked job. Intended for administrative use
// and tests.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]Record)
}
