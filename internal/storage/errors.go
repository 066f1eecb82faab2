package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreRead wraps any failure to read the pending record list. The
	// pipeline treats it as fatal for the whole run.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite wraps any failure to persist a summary. It is scoped to
	// a single record.
	ErrStoreWrite = errors.New("store write failed")

	// ErrInvalidCollection is returned for collection names that are not
	// plain SQL identifiers.
	ErrInvalidCollection = errors.New("invalid collection name")
)
