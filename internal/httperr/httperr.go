// Package httperr defines the failure taxonomy shared by the repository and
// the route handlers, and its mapping onto HTTP responses. Store-level error
// text never reaches the caller; every known failure class produces a
// structured JSON body.
package httperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure classes callers branch on with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrAuthentication    = errors.New("authentication required")
	ErrCSRF              = errors.New("csrf check failed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrPersistence       = errors.New("persistence failure")
)

// Error pairs a taxonomy class with a caller-safe reason string.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New wraps kind with a caller-safe reason.
func New(kind error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Status returns the HTTP status code for err's taxonomy class.
// Unknown errors map to 500 with a generic body, never a bare response.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrCSRF):
		return http.StatusForbidden
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPersistence):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Reason returns the caller-safe reason string for err.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Reason != "" {
		return e.Reason
	}
	if errors.Is(err, ErrPersistence) {
		// Never leak store internals.
		return "storage operation failed"
	}
	return err.Error()
}
