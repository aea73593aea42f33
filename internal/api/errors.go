// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/katameow/recsys-go/internal/apierr"
)

// respondDomainError maps a domain error from internal/apierr onto the
// standardized response envelope, using apierr.StatusCode for the HTTP
// status and the error's own message as the client-facing text — every
// apierr sentinel is already written to be safe to surface verbatim.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.StatusCode(err)
	code := errCodeForStatus(status)
	NewResponseWriter(w, r).Error(status, code, err.Error())
}

func errCodeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusBadRequest:
		return ErrCodeBadRequest
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusServiceUnavailable:
		return ErrCodeServiceUnavailable
	default:
		return ErrCodeInternalError
	}
}
