// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package cache provides the gzip+JSON payload codec shared by the
// cache-adapter backends (internal/cacheadapter) and the multi-tier
// response cache (internal/rescache). It never inspects response
// semantics; it only turns arbitrary payloads into opaque byte blobs
// and back.
package cache
