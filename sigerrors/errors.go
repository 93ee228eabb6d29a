// Package sigerrors defines the error taxonomy shared across the signal
// pipeline: invalid parameters, missing signals, integrity violations,
// and unavailable backing stores.
//
// The four categories map to distinct caller behavior:
//   - InvalidParametersError and NotFoundError are expected, recoverable,
//     and produced without side effects.
//   - IntegrityViolationError is an internal fault (a broken invariant),
//     never a user-correctable condition.
//   - StoreUnavailableError wraps driver failures; idempotent reads may be
//     retried, writes must not be.
package sigerrors

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidParametersError reports that parameter validation failed.
// Reasons carries every violated rule, not just the first one, so callers
// can surface all problems at once.
type InvalidParametersError struct {
	Reasons []string
}

// Error implements the error interface
func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid parameters: %s", strings.Join(e.Reasons, "; "))
}

// NewInvalidParameters creates an InvalidParametersError from a list of reasons
func NewInvalidParameters(reasons []string) error {
	return &InvalidParametersError{Reasons: reasons}
}

// IsInvalidParameters checks if an error is an InvalidParametersError
func IsInvalidParameters(err error) bool {
	var ipe *InvalidParametersError
	return errors.As(err, &ipe)
}

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound creates a NotFoundError for a resource and id
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IntegrityViolationError reports a broken invariant: an original signal
// mutated by processing, a derived signal whose parent vanished, or
// metadata whose samples cannot be recovered. It indicates a bug or data
// corruption, not bad input.
type IntegrityViolationError struct {
	Check  string
	Detail string
}

// Error implements the error interface
func (e *IntegrityViolationError) Error() string {
	return fmt.Sprintf("integrity violation [%s]: %s", e.Check, e.Detail)
}

// NewIntegrityViolation creates an IntegrityViolationError for a named check
func NewIntegrityViolation(check, detail string) error {
	return &IntegrityViolationError{Check: check, Detail: detail}
}

// IsIntegrityViolation checks if an error is an IntegrityViolationError
func IsIntegrityViolation(err error) bool {
	var ive *IntegrityViolationError
	return errors.As(err, &ive)
}

// StoreUnavailableError reports that a backing store is unreachable or
// failed mid-operation. Store names which of the two stores failed.
type StoreUnavailableError struct {
	Store string
	Op    string
	Err   error
}

// Error implements the error interface
func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s store unavailable in %s: %v", e.Store, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// WrapStoreError wraps a driver error with store and operation context.
// Returns nil if err is nil.
func WrapStoreError(store, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreUnavailableError{Store: store, Op: op, Err: err}
}

// IsStoreUnavailable checks if an error is a StoreUnavailableError
func IsStoreUnavailable(err error) bool {
	var sue *StoreUnavailableError
	return errors.As(err, &sue)
}
