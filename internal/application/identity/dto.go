package identity

import (
	"time"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// LoginInput contains the input for native login
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// CurrentUser is the authenticated user as exposed to API clients
type CurrentUser struct {
	ID          shared.ID
	Identifier  string
	Permissions []identity.Permission
}

// AuthResult is the outcome of a successful authentication
type AuthResult struct {
	Session *identity.CachedSession
	User    CurrentUser
}

// SessionConfig controls session lifetime and caching
type SessionConfig struct {
	SessionDuration time.Duration
	CacheTTL        time.Duration
}

// DefaultSessionConfig returns default configuration
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SessionDuration: 365 * 24 * time.Hour,
		CacheTTL:        5 * time.Minute,
	}
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	RequireVerification bool
	BcryptCost          int
}

// RegisterCustomerInput contains the data for a registered customer
type RegisterCustomerInput struct {
	FirstName    string `validate:"required"`
	LastName     string `validate:"required"`
	EmailAddress string `validate:"required,email"`
	Password     string `validate:"required"`
	Verified     bool
}
