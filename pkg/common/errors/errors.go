// Package errors defines the error taxonomy shared across the railyard engine.
package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the railyard library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDeadlineExceeded indicates that a run exceeded its overall deadline
	ErrDeadlineExceeded = errors.New("run deadline exceeded")
)

// ItemError reports that a single item's transform failed and aborted the run.
// It wraps the underlying cause for use with errors.Is / errors.As.
type ItemError struct {
	// ItemID identifies the item whose transform failed
	ItemID string

	// Err is the underlying transform error
	Err error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("item %s: processing failed: %v", e.ItemID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// NewItemError creates an ItemError for the given item and cause.
func NewItemError(itemID string, cause error) *ItemError {
	return &ItemError{ItemID: itemID, Err: cause}
}

// IsItemError returns true if the error is (or wraps) an ItemError.
func IsItemError(err error) bool {
	var ie *ItemError
	return errors.As(err, &ie)
}

// ValidationError provides structured information about a configuration
// validation failure. It wraps ErrInvalidConfiguration.
type ValidationError struct {
	// Module is the component that rejected the value
	Module string

	// Field is the configuration field that failed validation
	Field string

	// Value is the rejected value
	Value interface{}

	// Reason describes why validation failed
	Reason string

	// Hint optionally suggests how to fix the value
	Hint string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// IsValidationError returns true if the error is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
