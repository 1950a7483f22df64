package domain

import "errors"

// Error kinds surfaced to callers. Operations that fail with one of these
// leave their collection unchanged, except ErrPersistence: by then the
// in-memory copy has already advanced and only the store write failed.
var (
	ErrValidation        = errors.New("validation failed")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateContact  = errors.New("duplicate buyer contact")
	ErrPersistence       = errors.New("persistence failure")
)
