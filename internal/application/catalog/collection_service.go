package catalog

import (
	"context"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
)

// CollectionService evaluates collection filters against the catalog
type CollectionService struct {
	collectionRepo catalog.CollectionRepository
	variantRepo    catalog.VariantRepository
	prices         *PriceApplicator
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo catalog.CollectionRepository, variantRepo catalog.VariantRepository, prices *PriceApplicator) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		variantRepo:    variantRepo,
		prices:         prices,
	}
}

// Collections lists all collections
func (s *CollectionService) Collections(ctx context.Context) ([]catalog.Collection, error) {
	return s.collectionRepo.FindAll(ctx)
}

// FindBySlug returns a single collection
func (s *CollectionService) FindBySlug(ctx context.Context, slug string) (*catalog.Collection, error) {
	return s.collectionRepo.FindBySlug(ctx, slug)
}

// ProductVariants returns the priced, enabled variants matched by the collection's filters
func (s *CollectionService) ProductVariants(ctx context.Context, rc *reqctx.RequestContext, slug string) ([]catalog.ProductVariant, error) {
	c, err := s.collectionRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	all, err := s.variantRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]catalog.ProductVariant, 0)
	for i := range all {
		v := &all[i]
		if !v.Enabled || !c.Matches(v) {
			continue
		}
		if err := s.prices.ApplyChannelPriceAndTax(ctx, rc, v, nil); err != nil {
			return nil, err
		}
		matched = append(matched, *v)
	}
	return matched, nil
}
