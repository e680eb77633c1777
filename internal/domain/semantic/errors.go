package semantic

import "errors"

var (
	// ErrEmbeddingUnavailable is returned when an operation needs an
	// embedding capability and none is configured.
	ErrEmbeddingUnavailable = errors.New("embedding capability unavailable")

	// ErrNoMatch is returned when no catalog entry clears the thresholds.
	ErrNoMatch = errors.New("no matching entry")
)
