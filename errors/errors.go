/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity or a referenced entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateKey is returned when adding an entity whose key is already indexed
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecodeRow is returned when a stored row cannot be turned into an entity
	ErrDecodeRow = errors.New("cannot decode row")

	// ErrInit is returned when a registry finished loading with errors
	ErrInit = errors.New("registry initialization failed")

	// ErrClosed is returned when mutating a list after it was closed
	ErrClosed = errors.New("list is closed")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateKeyError represents an attempt to add an entity whose key is taken
type DuplicateKeyError struct {
	Type string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DecodeRowError wraps the failure of a single stored row. Line is 1-based.
type DecodeRowError struct {
	File string
	Line int
	Err  error
}

func (e *DecodeRowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *DecodeRowError) Is(target error) bool {
	return target == ErrDecodeRow
}

func (e *DecodeRowError) Unwrap() error {
	return e.Err
}

// AggregateInitError bundles every failure collected by one initialization pass.
type AggregateInitError struct {
	err error
}

func (e *AggregateInitError) Error() string {
	errs := e.Errors()
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s with %d error(s): %s", ErrInit, len(errs), strings.Join(msgs, "; "))
}

func (e *AggregateInitError) Is(target error) bool {
	return target == ErrInit
}

// Errors returns the collected failures in the order they were recorded.
func (e *AggregateInitError) Errors() []error {
	return multierr.Errors(e.err)
}

func (e *AggregateInitError) Unwrap() []error {
	return e.Errors()
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(entityType, key string) error {
	return &DuplicateKeyError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewDecodeRowError creates a new DecodeRowError
func NewDecodeRowError(file string, line int, err error) error {
	return &DecodeRowError{File: file, Line: line, Err: err}
}

// NewAggregateInitError combines errs into a single AggregateInitError.
// It returns nil when errs holds no non-nil error.
func NewAggregateInitError(errs ...error) error {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	return &AggregateInitError{err: combined}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey checks if an error is a duplicate key error
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDecodeRow checks if an error is a row decoding error
func IsDecodeRow(err error) bool {
	return errors.Is(err, ErrDecodeRow)
}

// IsInit checks if an error is an aggregated initialization error
func IsInit(err error) bool {
	return errors.Is(err, ErrInit)
}

// IsClosed checks if an error reports a closed list
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
