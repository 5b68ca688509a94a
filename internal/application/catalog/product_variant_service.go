package catalog

import (
	"context"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ProductVariantService reads variants with prices applied
type ProductVariantService struct {
	variantRepo catalog.VariantRepository
	productRepo catalog.ProductRepository
	prices      *PriceApplicator
}

// NewProductVariantService creates a new ProductVariantService
func NewProductVariantService(variantRepo catalog.VariantRepository, productRepo catalog.ProductRepository, prices *PriceApplicator) *ProductVariantService {
	return &ProductVariantService{
		variantRepo: variantRepo,
		productRepo: productRepo,
		prices:      prices,
	}
}

// FindOne returns a priced variant. Disabled variants are hidden from the shop API.
func (s *ProductVariantService) FindOne(ctx context.Context, rc *reqctx.RequestContext, id shared.ID) (*catalog.ProductVariant, error) {
	v, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc.APIType() == reqctx.APITypeShop && !v.Enabled {
		return nil, shared.ErrNotFound
	}
	if err := s.prices.ApplyChannelPriceAndTax(ctx, rc, v, nil); err != nil {
		return nil, err
	}
	return v, nil
}

// FindProduct returns a product by ID or slug with all its variants priced
func (s *ProductVariantService) FindProduct(ctx context.Context, rc *reqctx.RequestContext, id shared.ID, slug string) (*catalog.Product, error) {
	var (
		p   *catalog.Product
		err error
	)
	if !id.IsZero() {
		p, err = s.productRepo.FindByID(ctx, id)
	} else {
		p, err = s.productRepo.FindBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	if rc.APIType() == reqctx.APITypeShop && !p.Enabled {
		return nil, shared.ErrNotFound
	}
	for i := range p.Variants {
		if err := s.prices.ApplyChannelPriceAndTax(ctx, rc, &p.Variants[i], nil); err != nil {
			return nil, err
		}
	}
	return p, nil
}
