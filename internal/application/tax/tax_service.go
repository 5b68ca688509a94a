// Package tax resolves the tax zone of a request and the rate applicable to a tax category.
package tax

import (
	"context"
	"errors"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/geo"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"go.uber.org/zap"
)

// TaxService resolves zones and rates
type TaxService struct {
	zoneRepo     geo.ZoneRepository
	rateRepo     tax.RateRepository
	categoryRepo tax.CategoryRepository
	logger       *zap.Logger
}

// NewTaxService creates a new TaxService
func NewTaxService(zoneRepo geo.ZoneRepository, rateRepo tax.RateRepository, categoryRepo tax.CategoryRepository, logger *zap.Logger) *TaxService {
	return &TaxService{
		zoneRepo:     zoneRepo,
		rateRepo:     rateRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ActiveTaxZone returns the zone taxes are calculated for. When the order has a
// shipping country that belongs to a zone, that zone wins over the channel default.
// o may be nil.
func (s *TaxService) ActiveTaxZone(ctx context.Context, rc *reqctx.RequestContext, o *order.Order) (shared.ID, error) {
	if o != nil && o.ShippingCountryCode != "" {
		zones, err := s.zoneRepo.FindByCountryCode(ctx, o.ShippingCountryCode)
		if err != nil {
			return 0, err
		}
		if len(zones) > 0 {
			return zones[0].ID, nil
		}
	}
	ch := rc.Channel()
	if ch == nil || ch.DefaultTaxZoneID == nil {
		return 0, shared.NewDomainError("NO_ACTIVE_TAX_ZONE", "The active tax zone could not be determined")
	}
	return *ch.DefaultTaxZoneID, nil
}

// ApplicableRate returns the enabled rate for the zone and category, or the zero rate
func (s *TaxService) ApplicableRate(ctx context.Context, zoneID, categoryID shared.ID) (tax.Rate, error) {
	rate, err := s.rateRepo.FindApplicable(ctx, zoneID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No tax rate configured, applying zero rate",
				zap.Stringer("zone_id", zoneID),
				zap.Stringer("tax_category_id", categoryID))
			return tax.ZeroRate(), nil
		}
		return tax.Rate{}, err
	}
	return *rate, nil
}

// FindCategory resolves a tax category by name or first word of its name,
// falling back to the default category when nameOrCode is empty
func (s *TaxService) FindCategory(ctx context.Context, nameOrCode string) (*tax.Category, error) {
	if nameOrCode == "" {
		return s.categoryRepo.FindDefault(ctx)
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Matches(nameOrCode) {
			return &categories[i], nil
		}
	}
	return nil, shared.NewDomainError("TAX_CATEGORY_NOT_FOUND", "No tax category matches \""+nameOrCode+"\"")
}

// Rates lists all tax rates
func (s *TaxService) Rates(ctx context.Context) ([]tax.Rate, error) {
	return s.rateRepo.FindAll(ctx)
}
