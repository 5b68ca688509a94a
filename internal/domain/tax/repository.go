package tax

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared"
)

// CategoryRepository persists tax categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id shared.ID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	FindDefault(ctx context.Context) (*Category, error)
	Save(ctx context.Context, c *Category) error
}

// RateRepository persists tax rates
type RateRepository interface {
	FindAll(ctx context.Context) ([]Rate, error)
	// FindApplicable returns the enabled rate for the zone and category, or shared.ErrNotFound
	FindApplicable(ctx context.Context, zoneID, categoryID shared.ID) (*Rate, error)
	Save(ctx context.Context, r *Rate) error
}
