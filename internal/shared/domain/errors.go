package domain

import (
	"errors"
	"fmt"
)

// Error codes shared across services. Handlers map these onto HTTP statuses.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotYetDue         = "NOT_YET_DUE"
	CodeNoPendingRequest  = "NO_PENDING_REQUEST"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error is the domain error type carried across layers.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError creates a not-found error for a resource and identifier.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewConflictError creates a conflict error (optimistic lock failures).
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NewInvalidTransitionError reports an illegal state machine transition.
func NewInvalidTransitionError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("invalid transition from %s to %s", from, to),
	}
}

// NewInvalidStateError reports an operation attempted from a state that does
// not support it.
func NewInvalidStateError(message string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: message}
}

// NewNotYetDueError reports an operation attempted before its time window opens.
func NewNotYetDueError(message string) *Error {
	return &Error{Code: CodeNotYetDue, Message: message}
}

// NewNoPendingRequestError reports a resolve with nothing pending.
func NewNoPendingRequestError() *Error {
	return &Error{Code: CodeNoPendingRequest, Message: "no pending extension request"}
}

// CodeOf extracts the domain error code, or CodeInternal for unknown errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
