// Package catalog serves products, variants and collections with prices
// resolved for the request's channel and tax zone.
package catalog

import (
	"context"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
)

// TaxResolver resolves the active zone and the rate for a category
type TaxResolver interface {
	ActiveTaxZone(ctx context.Context, rc *reqctx.RequestContext, o *order.Order) (shared.ID, error)
	ApplicableRate(ctx context.Context, zoneID, categoryID shared.ID) (tax.Rate, error)
}

// PriceApplicator computes the price fields of a variant
type PriceApplicator struct {
	taxes TaxResolver
}

// NewPriceApplicator creates a new PriceApplicator
func NewPriceApplicator(taxes TaxResolver) *PriceApplicator {
	return &PriceApplicator{taxes: taxes}
}

// ApplyChannelPriceAndTax sets Price, PriceWithTax, CurrencyCode and the applied
// tax rate on v from its channel price. It always recomputes from the stored
// channel price, so applying twice yields the same values. o may be nil.
func (a *PriceApplicator) ApplyChannelPriceAndTax(ctx context.Context, rc *reqctx.RequestContext, v *catalog.ProductVariant, o *order.Order) error {
	ch := rc.Channel()
	if ch == nil {
		return shared.NewDomainError("NO_CHANNEL", "Request has no channel")
	}
	cp, ok := v.ChannelPrice(ch.ID)
	if !ok {
		return shared.NewDomainError("NO_PRICE_FOUND",
			"No price information found for ProductVariant "+v.ID.String()+" in channel "+ch.Code)
	}

	zoneID, err := a.taxes.ActiveTaxZone(ctx, rc, o)
	if err != nil {
		return err
	}
	rate, err := a.taxes.ApplicableRate(ctx, zoneID, v.TaxCategoryID)
	if err != nil {
		return err
	}

	applied := catalog.AppliedPrice{
		CurrencyCode:         cp.CurrencyCode,
		TaxRate:              rate.Value,
		TaxRateName:          rate.Name,
		ListPrice:            cp.Price,
		ListPriceIncludesTax: ch.PricesIncludeTax,
	}
	if applied.CurrencyCode == "" {
		applied.CurrencyCode = ch.CurrencyCode
	}
	if ch.PricesIncludeTax {
		applied.PriceWithTax = cp.Price
		applied.Price = rate.NetPriceOf(cp.Price)
	} else {
		applied.Price = cp.Price
		applied.PriceWithTax = rate.GrossPriceOf(cp.Price)
	}
	v.ApplyPrice(applied)
	return nil
}
