package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error is a client-caused failure. Status is the HTTP status the failure declares;
// anything that is not an *Error is treated as internal by the transport.
type Error struct {
	Code    ErrorCode
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, status int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// Invalid reports a bad or missing field.
func Invalid(format string, args ...any) *Error {
	return NewError(ErrCodeInvalid, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// Conflict reports a redundant state transition.
func Conflict(message string) *Error {
	return NewError(ErrCodeConflict, http.StatusBadRequest, message)
}

// UserNotFound reports an unknown user id.
func UserNotFound(id int64) *Error {
	return NewError(ErrCodeNotFound, http.StatusNotFound, fmt.Sprintf("user with ID %d not found", id))
}

// Common domain errors.
var (
	ErrInvalidPayload = NewError(ErrCodeInvalid, http.StatusBadRequest, "invalid payload")
	ErrEmailRequired  = NewError(ErrCodeInvalid, http.StatusBadRequest, "email is required")
	ErrEmptyPatch     = NewError(ErrCodeInvalid, http.StatusBadRequest, "at least one field must be provided")
	ErrDuplicateEmail = NewError(ErrCodeConflict, http.StatusConflict, "user with this email already exists")
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, http.StatusUnauthorized, "unauthorized")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// AsError extracts the client-facing domain error, if any.
func AsError(err error) (*Error, bool) {
	var dErr *Error
	if errors.As(err, &dErr) && dErr != nil {
		return dErr, true
	}
	return nil, false
}
