package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel domain errors.
// These allow the transport layer to map business denials to status codes
// without string matching. None of them are retryable; ErrStorageFailure is
// the only kind eligible for caller-directed retry.

var (
	// ErrUnauthorized means the actor lacks the role or ownership for the action
	ErrUnauthorized = errors.New("actor is not permitted to perform this action")

	// ErrForbidden means the visibility filter denied access to the row
	ErrForbidden = errors.New("access to this resource is not permitted")

	// ErrNotFound means the requested entity does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidRelationship means no active consumer-supplier connection
	// exists for the (supplier, company) pair
	ErrInvalidRelationship = errors.New("no active connection to this supplier for this company")

	// ErrSupplierNotApproved means the supplier-company relationship is not approved
	ErrSupplierNotApproved = errors.New("supplier is not approved by this company")

	// ErrEmptyOrder protects the order invariant: no order without items
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrInvalidAddress means the shipping address does not belong to the consumer
	ErrInvalidAddress = errors.New("shipping address does not belong to this consumer")

	// ErrTerminalState means the order is delivered or cancelled and cannot move
	ErrTerminalState = errors.New("order is in a terminal state")

	// ErrNotCancellable means the order has left pending and the consumer can
	// no longer cancel it
	ErrNotCancellable = errors.New("this order can no longer be cancelled")

	// ErrInvalidTransition protects the relationship state machine: only
	// pending applications can be approved or rejected
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateApplication means a pending or approved application already
	// exists for this supplier-company pair
	ErrDuplicateApplication = errors.New("an application for this company already exists")

	// ErrValidation covers malformed or out-of-range input
	ErrValidation = errors.New("invalid input")

	// ErrStorageFailure means the relational store is unavailable or failed
	ErrStorageFailure = errors.New("storage unavailable")
)

// StorageError wraps an underlying store error so callers can match it with
// errors.Is(err, ErrStorageFailure) while the cause stays inspectable
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports a match against ErrStorageFailure
func (e *StorageError) Is(target error) bool { return target == ErrStorageFailure }

// WrapStorage wraps a store error as a StorageError. Returns nil for nil
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Err: err}
}

// ValidationError carries a field-level message while matching ErrValidation
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports a match against ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds a field-level validation error
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps a domain error to the HTTP status code the API returns.
// Unknown errors map to 500
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRelationship),
		errors.Is(err, ErrSupplierNotApproved),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInvalidAddress),
		errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTerminalState),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDuplicateApplication):
		return http.StatusConflict
	case errors.Is(err, ErrStorageFailure):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
