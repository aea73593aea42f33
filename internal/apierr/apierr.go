// Package apierr defines the domain error sentinels the dispatch layer
// maps to HTTP status codes, adapted from the teacher's
// internal/api/errors.go sentinel-error convention.
package apierr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when a query_hash has no tracked job.
	ErrNotFound = errors.New("apierr: resource not found")
	// ErrValidation is returned when a request body fails fingerprint
	// bounds or field validation.
	ErrValidation = errors.New("apierr: request validation failed")
	// ErrForbidden is returned when the admission check rejects a
	// submission (role or guest policy).
	ErrForbidden = errors.New("apierr: forbidden")
	// ErrCacheDisabled is returned by the admin CRUD endpoints when
	// ENABLE_CACHE is false.
	ErrCacheDisabled = errors.New("apierr: cache disabled")
	// ErrHashMismatch is returned when a client-supplied query_hash
	// disagrees with the server-computed fingerprint.
	ErrHashMismatch = errors.New("apierr: query_hash mismatch")
	// ErrResultUnavailable is returned when a job is completed but its
	// result was lost (Job Registry entry cleared concurrently).
	ErrResultUnavailable = errors.New("apierr: result unavailable")
)

// StatusCode maps a domain error to the HTTP status the dispatch layer
// should respond with, falling through to 500 for anything
// unrecognized, mirroring the teacher's ResponseWriter error-code table.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrHashMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrCacheDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrResultUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
