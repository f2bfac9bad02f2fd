package domain

import "errors"

// Sentinel errors shared across services. Callers wrap them with context
// via fmt.Errorf("...: %w", Err...) and controllers map them to HTTP
// statuses: ErrInvalidInput -> 400, ErrNotFound -> 404, ErrConflict -> 409.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
