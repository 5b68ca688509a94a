package order

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Repository persists orders together with their lines.
// Loaded lines are ordered by ID and never carry a ProductVariant.
type Repository interface {
	FindByID(ctx context.Context, id shared.ID) (*Order, error)
	FindByCode(ctx context.Context, code string) (*Order, error)
	// FindActiveForCustomer returns the customer's most recently updated active order in the channel
	FindActiveForCustomer(ctx context.Context, customerID, channelID shared.ID) (*Order, error)
	FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[Order], error)
	// Save creates or updates the order, assigning IDs to new lines and deleting removed ones
	Save(ctx context.Context, o *Order) error
}
