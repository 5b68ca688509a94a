package identity

import (
	"context"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID, with roles
	FindByID(ctx context.Context, id shared.ID) (*User, error)

	// FindByIdentifier finds a user by login identifier, with roles
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)

	// Save creates or updates a user and its role assignments
	Save(ctx context.Context, user *User) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id shared.ID) (*Customer, error)
	FindByUserID(ctx context.Context, userID shared.ID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[Customer], error)
	Save(ctx context.Context, c *Customer) error
}

// AdministratorRepository defines the interface for administrator persistence
type AdministratorRepository interface {
	FindByUserID(ctx context.Context, userID shared.ID) (*Administrator, error)
	Save(ctx context.Context, a *Administrator) error
}

// SessionRepository persists sessions
type SessionRepository interface {
	FindByToken(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// InvalidateByToken marks the session with the given token invalidated
	InvalidateByToken(ctx context.Context, token string) error
	// DeleteStale removes sessions that expired or were invalidated before the cutoff
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}
