package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ErrorResult is an expected, typed failure returned to API clients as data
// rather than as a transport error.
type ErrorResult interface {
	ErrorCode() string
	Message() string
}

// BaseErrorResult implements ErrorResult for embedding
type BaseErrorResult struct {
	Code string
	Msg  string
}

// ErrorCode returns the machine-readable code
func (e BaseErrorResult) ErrorCode() string {
	return e.Code
}

// Message returns the human-readable message
func (e BaseErrorResult) Message() string {
	return e.Msg
}
