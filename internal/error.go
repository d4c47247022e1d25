package internal

import "errors"

var (
	ErrStoreUnavailable = errors.New("store not configured")
	ErrNoItems          = errors.New("no items in order")
	ErrInvalidItems     = errors.New("invalid items")
)
