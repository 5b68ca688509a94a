package channel

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Repository persists channels
type Repository interface {
	FindByID(ctx context.Context, id shared.ID) (*Channel, error)
	FindByCode(ctx context.Context, code string) (*Channel, error)
	FindByToken(ctx context.Context, token string) (*Channel, error)
	FindAll(ctx context.Context) ([]Channel, error)
	Save(ctx context.Context, c *Channel) error
}
