package identity

import (
	"context"
)

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	FindByCode(ctx context.Context, code string) (*Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	Save(ctx context.Context, role *Role) error
}
