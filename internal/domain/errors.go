package domain

import "errors"

// Sentinel errors shared across the domain. Services and repositories wrap
// them with fmt.Errorf("%w: ...") so callers can branch with errors.Is and
// the transport layer can map them to status codes.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
)
