// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic testing environments that closely match production.
//
// # Redis Container
//
// The RedisContainer provides a real Redis instance for testing the
// Redis-backed Cache Adapter and Timeline Bus structured backend:
//
//	func TestRedisCacheAdapter(t *testing.T) {
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer redis.Terminate(ctx)
//
//	    adapter := cacheadapter.NewRedis(cacheadapter.RedisConfig{Addr: redis.Addr})
//	    // ... exercise adapter against the real container
//	}
//
// # Benefits Over Mocks
//
// Using real containers provides several advantages:
//   - Tests validate actual wire-protocol behavior (TTL expiry, XADD/XRANGE semantics)
//   - No mock drift (mocks getting out of sync with real Redis behavior)
//   - Reduces maintenance burden versus hand-written fakes
//
// # CI Considerations
//
// These tests require Docker and network access. In CI:
//   - Self-hosted runners have Docker pre-installed
//   - Container images are cached between runs
//   - Tests are skipped gracefully if Docker is unavailable (SkipIfNoDocker)
package testinfra
