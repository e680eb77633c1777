package catalog

import "errors"

var (
	// ErrMissingResource is returned when a catalog file does not exist.
	ErrMissingResource = errors.New("catalog resource missing")

	// ErrMalformedRow marks a row with too few fields. Such rows are logged
	// and dropped; the error never reaches Load callers.
	ErrMalformedRow = errors.New("malformed catalog row")
)
