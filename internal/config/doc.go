// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides centralized configuration management for the
search orchestration core.

This package handles loading, validation, and parsing of configuration
for the cache adapter, multi-tier response cache, timeline bus, JWT
verification secret, and logging backend.

# Configuration Sources

Configuration is loaded in three layers, each overriding the last:

 1. Defaults: built-in sensible defaults for all options.
 2. Config File: an optional YAML file (config.yaml, or $CONFIG_PATH).
 3. Environment Variables: the authoritative override, using the
    option names from spec.md §6 and SPEC_FULL.md's DOMAIN STACK
    section (ENABLE_CACHE, CACHE_TTL_DEFAULT, GUEST_CACHE_TTL,
    ENABLE_GUEST_HASHED_QUERIES, CACHE_FAIL_OPEN,
    CACHE_SCHEMA_VERSION, CACHE_MAX_PAYLOAD_BYTES, CACHE_NAMESPACE,
    CACHE_BACKEND, NATS_URL/REDIS_URL, STREAM_TTL_SECONDS,
    DEFAULT_STREAM_MAXLEN, JWT_SECRET).

# Configuration Structure

  - ServerConfig: HTTP dispatch listener settings.
  - CacheConfig: Cache Adapter (C1) backend selection plus Multi-tier
    Response Cache (C6) policy.
  - TimelineConfig: Timeline Bus (C4) structured-backend selection and
    stream lifecycle.
  - SecurityConfig: the JWT verification secret consumed by
    internal/authctx.
  - LoggingConfig: zerolog level and output format.

Call LoadWithKoanf to load and validate a Config; the returned value is
immutable and safe for concurrent reads.
*/
package config
