package backfill

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoProgress is returned when a pass over the catalog leaves the same
	// records unembedded, which would otherwise loop forever.
	ErrNoProgress = errors.New("backfill made no progress")
)
