package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrMalformedRecord = errors.New("malformed record")
	ErrUnderdetermined = errors.New("model underdetermined")
)
