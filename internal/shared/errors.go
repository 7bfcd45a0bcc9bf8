package shared

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed service operation.
type ErrorCode string

const (
	// CodeForbidden indicates the actor lacks the capability for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"
	// CodeValidation indicates the input failed validation. Details carry []Issue.
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	// CodeNotFound indicates the entity does not exist or is not visible to the actor.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeConflict indicates a unique field collided in storage or the entity state forbids the change.
	CodeConflict ErrorCode = "CONFLICT"
	// CodeInternal indicates an unexpected failure. Callers never see the cause.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	// CodeNotImplemented indicates the operation is intentionally unsupported for the entity.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
)

// Sentinels for errors.Is matching on code.
var (
	ErrForbidden      = &ServiceError{Code: CodeForbidden}
	ErrValidation     = &ServiceError{Code: CodeValidation}
	ErrNotFound       = &ServiceError{Code: CodeNotFound}
	ErrConflict       = &ServiceError{Code: CodeConflict}
	ErrInternal       = &ServiceError{Code: CodeInternal}
	ErrNotImplemented = &ServiceError{Code: CodeNotImplemented}
)

const internalMessage = "an unexpected error occurred"

// Issue describes one failed validation rule.
type Issue struct {
	Path    string `json:"path"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// ServiceError is the error half of a Result.
type ServiceError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the internal cause, if any.
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a ServiceError with the same code.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Cause returns the wrapped internal error. It is never serialized.
func (e *ServiceError) Cause() error {
	return e.cause
}

// Issues returns validation issues carried in Details.
func (e *ServiceError) Issues() []Issue {
	issues, _ := e.Details.([]Issue)
	return issues
}

// NewError builds a ServiceError with the given code and message.
func NewError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// Forbidden returns a FORBIDDEN error.
func Forbidden(message string) *ServiceError {
	if message == "" {
		message = "operation not permitted"
	}
	return NewError(CodeForbidden, message)
}

// NotFound returns a NOT_FOUND error for entity/id.
func NotFound(entity string, id fmt.Stringer) *ServiceError {
	err := NewError(CodeNotFound, entity+" not found")
	if id != nil {
		err.Details = map[string]string{"id": id.String()}
	}
	return err
}

// Validation returns a VALIDATION_ERROR carrying issues.
func Validation(message string, issues ...Issue) *ServiceError {
	if message == "" {
		message = "validation failed"
	}
	err := NewError(CodeValidation, message)
	if len(issues) > 0 {
		err.Details = issues
	}
	return err
}

// Conflict returns a CONFLICT error.
func Conflict(message string) *ServiceError {
	return NewError(CodeConflict, message)
}

// NotImplemented returns a NOT_IMPLEMENTED error for the named operation.
func NotImplemented(operation string) *ServiceError {
	return NewError(CodeNotImplemented, operation+" is not supported")
}

// Internal hides cause behind a generic INTERNAL_ERROR.
func Internal(cause error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: internalMessage, cause: cause}
}

// WithCause attaches an internal cause for logging.
func (e *ServiceError) WithCause(cause error) *ServiceError {
	e.cause = cause
	return e
}

// AsServiceError extracts a ServiceError from err.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) ErrorCode {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.Code
	}
	return CodeInternal
}
