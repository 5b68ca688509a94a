// Package order manages carts: creation, line changes, pricing and the
// resolution of a session's active order.
package order

import (
	"context"
	"sort"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/tax"
)

// TaxResolver resolves the active zone and the rate for a category
type TaxResolver interface {
	ActiveTaxZone(ctx context.Context, rc *reqctx.RequestContext, o *order.Order) (shared.ID, error)
	ApplicableRate(ctx context.Context, zoneID, categoryID shared.ID) (tax.Rate, error)
}

// OrderCalculator prices order lines and totals
type OrderCalculator struct {
	variantRepo  catalog.VariantRepository
	shippingRepo shipping.Repository
	taxes        TaxResolver
}

// NewOrderCalculator creates a new OrderCalculator
func NewOrderCalculator(variantRepo catalog.VariantRepository, shippingRepo shipping.Repository, taxes TaxResolver) *OrderCalculator {
	return &OrderCalculator{
		variantRepo:  variantRepo,
		shippingRepo: shippingRepo,
		taxes:        taxes,
	}
}

// ApplyPrices sets list and unit prices of every line from the variants'
// channel prices, then recalculates the order totals. Variants are looked up
// but never attached to the lines.
func (c *OrderCalculator) ApplyPrices(ctx context.Context, rc *reqctx.RequestContext, o *order.Order) error {
	zoneID, err := c.taxes.ActiveTaxZone(ctx, rc, o)
	if err != nil {
		return err
	}
	pricesIncludeTax := o.PricesIncludeTax

	for i := range o.Lines {
		line := &o.Lines[i]
		variant := line.ProductVariant
		if variant == nil {
			variant, err = c.variantRepo.FindByID(ctx, line.ProductVariantID)
			if err != nil {
				return err
			}
		}
		cp, ok := variant.ChannelPrice(o.ChannelID)
		if !ok {
			return shared.NewDomainError("NO_PRICE_FOUND",
				"No price information found for ProductVariant "+variant.ID.String())
		}
		rate, err := c.taxes.ApplicableRate(ctx, zoneID, variant.TaxCategoryID)
		if err != nil {
			return err
		}
		line.ApplyPrice(cp.Price, pricesIncludeTax, rate)
	}

	if o.ShippingMethodID != nil {
		method, err := c.shippingRepo.FindByID(ctx, *o.ShippingMethodID)
		if err != nil {
			return err
		}
		o.SetShipping(method.ID, method.Price, method.PriceWithTax())
	}
	o.RecalculateTotals()
	return nil
}

// ShippingQuote is a shipping method priced for an order
type ShippingQuote struct {
	Method       shipping.Method
	Price        int64
	PriceWithTax int64
}

// EligibleShippingMethods prices every shipping method for the order, cheapest first
func (c *OrderCalculator) EligibleShippingMethods(ctx context.Context, o *order.Order) ([]ShippingQuote, error) {
	methods, err := c.shippingRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	quotes := make([]ShippingQuote, 0, len(methods))
	for _, m := range methods {
		quotes = append(quotes, ShippingQuote{Method: m, Price: m.Price, PriceWithTax: m.PriceWithTax()})
	}
	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Price < quotes[j].Price })
	return quotes, nil
}
