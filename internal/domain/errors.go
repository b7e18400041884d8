package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid recipe id")
	ErrFetch           = errors.New("fetch failed")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrMalformedRecipe = errors.New("malformed recipe")
)
