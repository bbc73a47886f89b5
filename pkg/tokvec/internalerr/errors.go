package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrTypeMismatch       = errors.New("mixed token types")
	ErrFormatIncompatible = errors.New("matrix format does not support the operation")
	ErrLowVariance        = errors.New("not enough variation in the data")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
