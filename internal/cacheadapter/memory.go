// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cacheadapter

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a cached byte blob with an optional expiration. A
// zero ExpiresAt means the entry never expires.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStats tracks cache performance metrics.
type MemoryStats struct {
	mu        sync.RWMutex
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

// Memory is a thread-safe in-memory Adapter with per-entry TTL and a
// background cleanup goroutine, generalized from a single-default-TTL
// cache to accept an explicit TTL on every Set call.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stats   MemoryStats
	done    chan struct{}
}

// NewMemory constructs a Memory adapter and starts its background
// cleanup loop, which runs every 5 minutes for the adapter's lifetime.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Close stops the background cleanup goroutine.
func (m *Memory) Close() {
	close(m.done)
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.recordMiss()
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		m.recordMiss()
		m.recordEviction()
		return nil, false, nil
	}

	m.recordHit()
	return entry.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	expiresAt := time.Now().Add(ttl)
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: value, expiresAt: expiresAt}
	count := int64(len(m.entries))
	m.mu.Unlock()

	m.stats.mu.Lock()
	m.stats.TotalKeys = count
	m.stats.mu.Unlock()
	return nil
}

func (m *Memory) SetPersistent(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: value}
	count := int64(len(m.entries))
	m.mu.Unlock()

	m.stats.mu.Lock()
	m.stats.TotalKeys = count
	m.stats.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()

	if existed {
		m.recordEviction()
	}
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

// Stats returns a snapshot of current performance counters.
func (m *Memory) Stats() MemoryStats {
	m.stats.mu.RLock()
	defer m.stats.mu.RUnlock()
	return MemoryStats{
		Hits:      m.stats.Hits,
		Misses:    m.stats.Misses,
		Evictions: m.stats.Evictions,
		TotalKeys: m.stats.TotalKeys,
	}
}

func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

func (m *Memory) cleanup() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	var evictions int64
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			evictions++
		}
	}

	m.stats.mu.Lock()
	m.stats.Evictions += evictions
	m.stats.TotalKeys = int64(len(m.entries))
	m.stats.mu.Unlock()
}

func (m *Memory) recordHit() {
	m.stats.mu.Lock()
	m.stats.Hits++
	m.stats.mu.Unlock()
}

func (m *Memory) recordMiss() {
	m.stats.mu.Lock()
	m.stats.Misses++
	m.stats.mu.Unlock()
}

func (m *Memory) recordEviction() {
	m.stats.mu.Lock()
	m.stats.Evictions++
	m.stats.mu.Unlock()
}
