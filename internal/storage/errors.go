package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists. Classified records and runs are
	// append-only.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamMissing is returned when a pipeline stage requires an
	// artifact a prior stage never produced. Stages fail closed instead
	// of returning empty results.
	ErrUpstreamMissing = errors.New("required upstream result missing")
)
