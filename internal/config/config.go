// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import "time"

// Config holds all application configuration loaded from environment
// variables and an optional config file. Provides centralized
// configuration for the search orchestration core's server, cache,
// timeline, security, and logging settings.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all options.
//  2. Config File: optional YAML config file (config.yaml).
//  3. Environment Variables: override any setting via env vars.
//
// Config is immutable after LoadWithKoanf() and safe for concurrent
// read access from multiple goroutines.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Cache    CacheConfig    `koanf:"cache"`
	Timeline TimelineConfig `koanf:"timeline"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the HTTP dispatch layer's listener.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// CacheConfig drives the Cache Adapter (C1) backend selection and the
// Multi-tier Response Cache (C6) policy, per spec.md §6.
type CacheConfig struct {
	// Enabled mirrors ENABLE_CACHE: when false, the orchestrator runs
	// without memoization and admin cache endpoints return 503.
	Enabled bool `koanf:"enabled"`
	// EnableGuestHashedQueries mirrors ENABLE_GUEST_HASHED_QUERIES:
	// when false, guest submissions are rejected with 403.
	EnableGuestHashedQueries bool `koanf:"enable_guest_hashed_queries"`
	// Backend selects the Adapter implementation: "memory", "redis",
	// or "rest" (remote REST key-value store). Any other value fails
	// validation; an unreachable backend does not fall back to another.
	Backend string `koanf:"backend"`
	// FailOpen mirrors CACHE_FAIL_OPEN.
	FailOpen bool `koanf:"fail_open"`
	// SchemaVersion mirrors CACHE_SCHEMA_VERSION: participates in the
	// per-request response cache key namespace.
	SchemaVersion int `koanf:"schema_version"`
	// DefaultTTL mirrors CACHE_TTL_DEFAULT.
	DefaultTTL time.Duration `koanf:"default_ttl"`
	// GuestTTL mirrors GUEST_CACHE_TTL: used both for guest
	// per-request entries and for the precomputed tier.
	GuestTTL time.Duration `koanf:"guest_ttl"`
	// MaxPayloadBytes mirrors CACHE_MAX_PAYLOAD_BYTES.
	MaxPayloadBytes int `koanf:"max_payload_bytes"`
	// Namespace mirrors CACHE_NAMESPACE: prefix applied by the remote
	// REST adapter.
	Namespace string `koanf:"namespace"`
	// RedisURL configures the go-redis/v9 client backing both the
	// networked-store Adapter and, when Timeline.Backend is "redis",
	// the structured timeline backend — a single client serving both
	// concerns, per Open Question 4's single-client decision in
	// DESIGN.md.
	RedisURL string `koanf:"redis_url"`
	// RESTURL and RESTToken configure the remote REST key-value
	// adapter, when Backend is "rest".
	RESTURL   string `koanf:"rest_url"`
	RESTToken string `koanf:"rest_token"`
}

// TimelineConfig drives the Timeline Bus (C4) structured-backend
// selection and stream lifecycle.
type TimelineConfig struct {
	// Backend selects the structured backend: "redis" or "memory"
	// (the bus always falls back to memory transparently regardless
	// of this setting).
	Backend string `koanf:"backend"`
	// StreamTTLSeconds mirrors stream_ttl_seconds in spec.md §4.4: the
	// key TTL refreshed on every publish.
	StreamTTLSeconds int64 `koanf:"stream_ttl_seconds"`
	// DefaultStreamMaxLen mirrors DEFAULT_STREAM_MAXLEN: the
	// approximate XADD MAXLEN ~ cap.
	DefaultStreamMaxLen int64 `koanf:"default_stream_maxlen"`
}

// SecurityConfig carries the JWT verification secret consumed by
// internal/authctx.
type SecurityConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

// LoggingConfig controls the zerolog-based logging package.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
}
