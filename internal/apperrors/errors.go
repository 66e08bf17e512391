package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateCode is returned when an account code is already taken within a tenant.
var ErrDuplicateCode = fmt.Errorf("%w: duplicate account code", ErrDuplicate)

// ErrDuplicateReference is returned when an entry or invoice reference is already taken within a tenant.
var ErrDuplicateReference = fmt.Errorf("%w: duplicate reference", ErrDuplicate)

// ErrUnbalancedEntry indicates that the debit and credit sums of an entry differ.
var ErrUnbalancedEntry = errors.New("journal entry is not balanced")

// ErrInvalidState indicates the operation is not allowed in the target's current lifecycle state.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrAlreadyPosted indicates a second attempt to post an invoice.
var ErrAlreadyPosted = fmt.Errorf("%w: already posted", ErrInvalidState)

// ErrForbidden indicates the caller's tenant does not own the target.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrPersistence indicates a storage or transaction failure.
var ErrPersistence = errors.New("persistence error")

// Kind is the stable, machine-readable error identifier returned to API clients.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindUnbalancedEntry    Kind = "unbalanced_entry"
	KindInvalidState       Kind = "invalid_state"
	KindAlreadyPosted      Kind = "already_posted"
	KindDuplicateCode      Kind = "duplicate_code"
	KindDuplicateReference Kind = "duplicate_reference"
	KindDuplicate          Kind = "duplicate"
	KindNotFound           Kind = "not_found"
	KindAuthorization      Kind = "authorization_error"
	KindUnauthorized       Kind = "unauthorized"
	KindPersistence        Kind = "persistence_error"
)

// AppError carries an HTTP-analogous status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. A 500 code marks the error as a persistence failure.
func NewAppError(code int, message string, err error) *AppError {
	if code >= http.StatusInternalServerError {
		if err == nil {
			err = ErrPersistence
		} else if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError creates a 400 AppError wrapping ErrValidation.
func NewValidationError(message string, err error) *AppError {
	if err == nil {
		err = ErrValidation
	} else {
		err = fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: err}
}

const internalMessage = "an internal error occurred"

// Describe maps an error to its HTTP status, kind and a client-safe message.
// Persistence failures never expose the underlying cause.
func Describe(err error) (int, Kind, string) {
	switch {
	case err == nil:
		return http.StatusOK, "", ""
	case errors.Is(err, ErrPersistence):
		return http.StatusInternalServerError, KindPersistence, internalMessage
	case errors.Is(err, ErrUnbalancedEntry):
		return http.StatusUnprocessableEntity, KindUnbalancedEntry, err.Error()
	case errors.Is(err, ErrAlreadyPosted):
		return http.StatusUnprocessableEntity, KindAlreadyPosted, err.Error()
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity, KindInvalidState, err.Error()
	case errors.Is(err, ErrDuplicateCode):
		return http.StatusUnprocessableEntity, KindDuplicateCode, err.Error()
	case errors.Is(err, ErrDuplicateReference):
		return http.StatusUnprocessableEntity, KindDuplicateReference, err.Error()
	case errors.Is(err, ErrDuplicate):
		return http.StatusUnprocessableEntity, KindDuplicate, err.Error()
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, KindValidation, err.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, KindNotFound, err.Error()
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, KindAuthorization, err.Error()
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, KindUnauthorized, err.Error()
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
		return http.StatusBadRequest, KindValidation, appErr.Message
	}
	return http.StatusInternalServerError, KindPersistence, internalMessage
}
