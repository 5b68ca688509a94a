package catalog

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared"
)

// FacetRepository persists facets and their values
type FacetRepository interface {
	FindByCode(ctx context.Context, code string) (*Facet, error)
	FindAll(ctx context.Context) ([]Facet, error)
	Save(ctx context.Context, f *Facet) error
}

// ProductRepository persists products together with their variants
type ProductRepository interface {
	FindByID(ctx context.Context, id shared.ID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, p *Product) error
}

// VariantRepository reads product variants
type VariantRepository interface {
	// FindByID loads a variant with channel prices, facet values and its product
	FindByID(ctx context.Context, id shared.ID) (*ProductVariant, error)
	FindAll(ctx context.Context) ([]ProductVariant, error)
	UpdateStock(ctx context.Context, id shared.ID, stockOnHand int) error
}

// CollectionRepository persists collections
type CollectionRepository interface {
	FindBySlug(ctx context.Context, slug string) (*Collection, error)
	FindAll(ctx context.Context) ([]Collection, error)
	Save(ctx context.Context, c *Collection) error
}
