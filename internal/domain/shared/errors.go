// Package shared contains common domain types, errors, and events
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFutureTimestamp = errors.New("timestamp cannot be in the future")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrInvalidRange    = errors.New("invalid range")

	// Ownership errors. Kept distinct from ErrNotFound so the transport layer
	// can decide whether to mask a 403 as a 404.
	ErrOwnership = errors.New("resource owned by another account")

	// Store errors. Record writes are not idempotent-safe, so these are never
	// retried by the engine; they propagate unchanged to the caller.
	ErrStore = errors.New("store error")

	// Infrastructure errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrCacheUnavailable   = errors.New("cache unavailable")
	ErrSnapshotStale      = errors.New("snapshot is stale")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "record", "ranking", "stats"
	Op      string // Operation that failed, e.g., "Submit", "GlobalRanking"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message naming the violated constraint
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Record domain errors
var (
	ErrRecordNotFound  = NewDomainError("record", "Find", ErrNotFound, "completion record not found")
	ErrRecordNotOwned  = NewDomainError("record", "Delete", ErrOwnership, "record belongs to another account")
	ErrInvalidAccount  = NewDomainError("record", "Validate", ErrInvalidID, "account id must be 12 uppercase alphanumeric characters")
	ErrAccountNotFound = NewDomainError("record", "FindAccount", ErrNotFound, "account not found")
)

// Ranking domain errors
var (
	ErrInvalidLimit    = NewDomainError("ranking", "Validate", ErrValueOutOfRange, "limit out of range")
	ErrSnapshotMissing = NewDomainError("ranking", "LoadSnapshot", ErrNotFound, "leaderboard snapshot not found")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsOwnership checks if the error is an ownership violation.
func IsOwnership(err error) bool {
	return errors.Is(err, ErrOwnership)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrFutureTimestamp) ||
		errors.Is(err, ErrInvalidRange)
}

// IsStore checks if the error came from the underlying record store.
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}
