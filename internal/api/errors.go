// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for the client error taxonomy. Controllers route on
// these with errors.Is rather than inspecting status codes themselves.
var (
	// ErrQuotaExceeded indicates the backend rejected a request because a
	// usage limit was reached. Callers route the user to the upgrade flow.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrAuth indicates a missing or invalid session. Callers route to login.
	ErrAuth = errors.New("authentication required")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the request was rejected client-side before
	// any network call (bad file type, size, empty input).
	ErrValidation = errors.New("validation failed")
)

// APIError represents an error response from the backend.
type APIError struct {
	Status int    // HTTP status code, 0 for transport failures
	Detail string // server-provided detail text, if any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// Detail returns the server-provided detail text of err when it carries
// one, else the empty string.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// hasQuotaIndicator reports whether an error detail string signals a
// usage limit. The backend has no structured quota error code, so a 403
// or a limit-bearing message must both map to ErrQuotaExceeded. The
// substring match is fragile but part of the backend contract.
func hasQuotaIndicator(detail string) bool {
	lower := strings.ToLower(detail)
	return strings.Contains(lower, "limit") || strings.Contains(lower, "quota")
}

// classifyStatus converts an HTTP error response into the taxonomy.
func classifyStatus(status int, detail string) error {
	apiErr := &APIError{Status: status, Detail: detail}

	switch {
	case status == http.StatusForbidden || hasQuotaIndicator(detail):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Error())
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrAuth, apiErr.Error())
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error())
	default:
		return apiErr
	}
}
