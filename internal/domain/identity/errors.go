package identity

import "github.com/shopfront/backend/internal/domain/shared"

// Error result codes
const (
	InvalidCredentialsErrorCode = "INVALID_CREDENTIALS_ERROR"
	NotVerifiedErrorCode        = "NOT_VERIFIED_ERROR"
)

// InvalidCredentialsError is returned when the identifier or password is wrong
type InvalidCredentialsError struct {
	shared.BaseErrorResult
	AuthenticationError string
}

// NewInvalidCredentialsError creates an InvalidCredentialsError
func NewInvalidCredentialsError(reason string) *InvalidCredentialsError {
	return &InvalidCredentialsError{
		BaseErrorResult: shared.BaseErrorResult{
			Code: InvalidCredentialsErrorCode,
			Msg:  "The provided credentials are invalid",
		},
		AuthenticationError: reason,
	}
}

// NotVerifiedError is returned when verification is required and the user is not verified
type NotVerifiedError struct {
	shared.BaseErrorResult
}

// NewNotVerifiedError creates a NotVerifiedError
func NewNotVerifiedError() *NotVerifiedError {
	return &NotVerifiedError{shared.BaseErrorResult{
		Code: NotVerifiedErrorCode,
		Msg:  "Please verify this email address before logging in",
	}}
}
