package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the engine. Wrap with fmt.Errorf("...: %w")
// and branch with errors.Is/As at decision points.
var (
	// ErrUnknownBucket is returned for bucket ids not declared by the catalog.
	ErrUnknownBucket = errors.New("unknown bucket")

	// ErrSessionNotFound is returned when a session id has no live or
	// restorable state.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage is returned when a turn is submitted with no content.
	ErrEmptyMessage = errors.New("message is empty")
)

// ValidationError reports a bucket rejecting a normalized value. It is
// recovered locally: the update drops, others still apply.
type ValidationError struct {
	BucketID BucketID
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for bucket %q: %s", e.BucketID, e.Reason)
}

// NewValidationError creates a ValidationError for the given bucket.
func NewValidationError(id BucketID, reason string) *ValidationError {
	return &ValidationError{BucketID: id, Reason: reason}
}
