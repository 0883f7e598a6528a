// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/CLI output by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrFetchFailed indicates fresh quotes could not be loaded from the quote source.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCacheRead indicates the persisted quote list could not be read or decoded.
	ErrCacheRead = errors.New("cache read failed")

	// ErrCacheWrite indicates the quote list could not be persisted.
	ErrCacheWrite = errors.New("cache write failed")

	// ErrSuperseded indicates a sync finished after a newer sync was started,
	// so its result was discarded.
	ErrSuperseded = errors.New("sync superseded by a newer request")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// FetchFailedError reports a failed quote sync.
// It matches both ErrFetchFailed and the underlying cause.
type FetchFailedError struct {
	Cause error
}

// Error implements the error interface.
func (e *FetchFailedError) Error() string {
	if e.Cause != nil {
		return "fetching quotes: " + e.Cause.Error()
	}

	return "fetching quotes failed"
}

// Unwrap returns the sentinel and the cause for errors.Is() support.
func (e *FetchFailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFetchFailed}
	}

	return []error{ErrFetchFailed, e.Cause}
}

// NewFetchFailedError wraps a quote source failure.
func NewFetchFailedError(cause error) error {
	return &FetchFailedError{Cause: cause}
}

// CacheOp names a cache store operation.
type CacheOp string

// Cache store operations.
const (
	CacheOpRead  CacheOp = "read"
	CacheOpWrite CacheOp = "write"
)

// CacheError provides context for cache store failures.
type CacheError struct {
	Op    CacheOp
	Key   string
	Cause error
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Cause)
}

// Unwrap returns the operation sentinel and the cause for errors.Is() support.
func (e *CacheError) Unwrap() []error {
	sentinel := ErrCacheRead
	if e.Op == CacheOpWrite {
		sentinel = ErrCacheWrite
	}

	return []error{sentinel, e.Cause}
}

// NewCacheError creates a cache error for the given operation and key.
func NewCacheError(op CacheOp, key string, cause error) error {
	return &CacheError{Op: op, Key: key, Cause: cause}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsFetchFailed checks if an error is a failed quote sync.
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsSuperseded checks if a sync result was discarded in favor of a newer one.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
