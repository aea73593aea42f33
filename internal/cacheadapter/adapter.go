// Package cacheadapter implements the storage leg of the cache
// contract: byte-oriented get/set/delete/exists over one of three
// interchangeable backends (in-memory, remote REST, Redis), selected at
// startup by configuration.
package cacheadapter

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound names a missing key. The backends in this package do not
// return it: Get reports a miss, expired or absent, as a false found
// flag with a nil error.
var ErrNotFound = errors.New("cacheadapter: key not found")

// Adapter is the capability every cache backend exposes to C2/C6. The
// contract mandates: Get after Set(k, v, t) returns v until at least t
// has elapsed; Delete(k) then Get(k) reports absent; Exists(k) agrees
// with Get(k) succeeding modulo expiry races.
type Adapter interface {
	// Get returns the raw value for key and true, or nil and false if
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetPersistent stores value under key with no expiry.
	SetPersistent(ctx context.Context, key string, value []byte) error
	// Delete removes key, if present. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key currently has a live value.
	Exists(ctx context.Context, key string) (bool, error)
}
