package domain

import "errors"

// Sentinel errors shared across layers. Transports map them to HTTP
// statuses; use cases wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotConfigured signals a missing provider credential. Callers
	// treat this as "feature unavailable", never as fatal.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrInvalidInput signals bad caller input, rejected immediately.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmbeddingProviderError signals a remote embedding failure after
	// retries are exhausted.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrDimensionMismatch signals two vectors of different length. During
	// matching this skips a single candidate, it never aborts the run.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrCandidateRetrieval signals a failed candidate fetch; the whole
	// matching run for that item is aborted.
	ErrCandidateRetrieval = errors.New("candidate retrieval failed")
	// ErrItemNotFound signals a missing item.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotificationNotFound signals a missing notification.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNotOwner signals an operation on an item the caller does not own.
	ErrNotOwner = errors.New("caller does not own this item")
)
