package store

import "errors"

var (
	// ErrNotFound is returned by the few operations that report a missing id.
	// Update and delete operations ignore missing ids instead.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned when a sale exceeds the units in stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned when a sale quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrMalformedImport is returned when an import payload cannot be decoded.
	ErrMalformedImport = errors.New("malformed import payload")
)

// ErrUnsyncedEntity is returned by MergeRemote for collections that are not
// pulled from the backend.
var ErrUnsyncedEntity = errors.New("entity is not synced")
