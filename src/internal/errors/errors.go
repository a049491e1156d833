// Package errors provides domain-specific error types for wgvpc.
//
// Every error carries a code (the taxonomy category) and optionally a reason
// that narrows it down, e.g. code CONFLICT_ERROR with reason ALREADY_RUNNING.
// errors.Is matches on code, and on reason when the target sets one, so both
// errors.Is(err, ErrAlreadyRunning) and errors.Is(err, New(ErrCodeConflict, ""))
// work as expected.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeValidation indicates a malformed address, network, port or key.
	// It is always raised before any mutation happens.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeNotFound indicates an unresolved VPC, router, LAN, remote or subnet id.
	ErrCodeNotFound ErrorCode = "NOT_FOUND_ERROR"

	// ErrCodeConflict indicates a duplicate id or an already running router.
	ErrCodeConflict ErrorCode = "CONFLICT_ERROR"

	// ErrCodeExternalTool indicates a non-zero exit of an invoked command.
	ErrCodeExternalTool ErrorCode = "EXTERNAL_TOOL_ERROR"

	// ErrCodeState indicates an operation that is not allowed in the current lifecycle state.
	ErrCodeState ErrorCode = "STATE_ERROR"

	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Reason narrows an ErrorCode down to a specific condition.
type Reason string

var (
	ErrAlreadyRunning    = &Error{Code: ErrCodeConflict, Reason: "ALREADY_RUNNING", Message: "router is already running"}
	ErrAlreadyExists     = &Error{Code: ErrCodeConflict, Reason: "ALREADY_EXISTS", Message: "record already exists"}
	ErrNotRunning        = &Error{Code: ErrCodeState, Reason: "NOT_RUNNING", Message: "router is not running"}
	ErrNamespaceNotFound = &Error{Code: ErrCodeNotFound, Reason: "NAMESPACE_NOT_FOUND", Message: "namespace does not exist"}
	ErrMissingAddress    = &Error{Code: ErrCodeValidation, Reason: "MISSING_ADDRESS", Message: "address is required"}
	ErrNotFound          = &Error{Code: ErrCodeNotFound, Message: "record not found"}
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Reason  Reason
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code (and reason, if the target has one).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Reason == "" || e.Reason == t.Reason
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Derive returns a copy of sentinel with a more specific message and cause,
// keeping code and reason so that errors.Is(result, sentinel) holds.
func Derive(sentinel *Error, message string, cause error) *Error {
	return &Error{
		Code:    sentinel.Code,
		Reason:  sentinel.Reason,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(message string, cause error) *Error {
	return Wrap(ErrCodeNotFound, message, cause)
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, cause error) *Error {
	return Wrap(ErrCodeConflict, message, cause)
}

// NewExternalToolError creates a new external command error.
func NewExternalToolError(message string, cause error) *Error {
	return Wrap(ErrCodeExternalTool, message, cause)
}

// NewStateError creates a new lifecycle state error.
func NewStateError(message string, cause error) *Error {
	return Wrap(ErrCodeState, message, cause)
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
