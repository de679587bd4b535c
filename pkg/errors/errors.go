// Package errors provides custom error types for the crosswalk system.
// These errors enable programmatic error checking with errors.Is/As and
// keep the distinction between recoverable data-quality issues (absorbed
// and counted by the engine) and contract violations (always fatal).
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the crosswalk system.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolved indicates that change detection was invoked on an
	// entity without a destination record ID. This is a caller contract
	// violation, never a data-quality issue.
	ErrUnresolved = errors.New("entity not resolved")

	// ErrMissingSnapshot indicates that a destination snapshot required
	// for an operation was not supplied.
	ErrMissingSnapshot = errors.New("destination snapshot missing")

	// ErrMissingColumn indicates that an input file lacks a required column.
	ErrMissingColumn = errors.New("required column missing")

	// ErrUnknownType indicates an entity or edge type outside the closed set.
	ErrUnknownType = errors.New("unknown type")

	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = errors.New("operation canceled")
)

// UnresolvedEntityError reports a change-detection call against an entity
// that never resolved to a destination record.
type UnresolvedEntityError struct {
	Type string
	Key  string
}

// Error implements the error interface.
func (e *UnresolvedEntityError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s entity with key %s has no destination record ID", e.Type, e.Key)
	}
	return fmt.Sprintf("%s entity has no destination record ID", e.Type)
}

// Is implements errors.Is support.
func (e *UnresolvedEntityError) Is(target error) bool {
	return target == ErrUnresolved
}

// NewUnresolvedEntityError creates a new UnresolvedEntityError.
func NewUnresolvedEntityError(entityType, key string) *UnresolvedEntityError {
	return &UnresolvedEntityError{Type: entityType, Key: key}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing data formats.
type ParseError struct {
	Format  string // Data format (csv, yaml, ...)
	File    string // File being parsed, if applicable
	Line    int    // Line number, if known
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("failed to parse %s file %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("failed to parse %s file %s: %s", e.Format, e.File, e.Message)
	default:
		return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
	}
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations.
type IOError struct {
	Operation string // read, write, create, ...
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ExtractError represents a failure while extracting one entity type or
// edge set from a raw input.
type ExtractError struct {
	Source string // input name (registry, executives, crm-facilities, ...)
	Kind   string // what was being extracted
	Err    error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting %s from %s: %v", e.Kind, e.Source, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(source, kind string, err error) *ExtractError {
	return &ExtractError{Source: source, Kind: kind, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnresolved checks if an error is an unresolved-entity contract error.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnresolved)
}

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// Is reports whether any error in err's tree matches target.
// It's an alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
// It's an alias for the standard library errors.As.
var As = errors.As
