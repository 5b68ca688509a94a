// Package catalog holds products, their purchasable variants, facets and collections.
package catalog

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is the aggregate of a sellable item and its variants
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
	Enabled     bool
	FacetValues []FacetValue
	Variants    []ProductVariant
}

// NewProduct creates an enabled product; an empty slug is derived from the name
func NewProduct(name, slug, description string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if slug == "" {
		slug = shared.Slugify(name)
	} else {
		slug = shared.Slugify(slug)
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Description:       description,
		Enabled:           true,
		FacetValues:       make([]FacetValue, 0),
		Variants:          make([]ProductVariant, 0),
	}, nil
}

// ChannelPrice is the net (or gross, depending on the channel) price of a variant in a channel
type ChannelPrice struct {
	ChannelID    shared.ID
	Price        int64 // minor units
	CurrencyCode string
}

// ProductVariant is the purchasable unit of a product.
//
// The fields below the persisted block are computed per request by price
// application and are zero until a price applicator has run on the variant.
type ProductVariant struct {
	shared.BaseEntity
	ProductID      shared.ID
	Name           string
	SKU            string
	Enabled        bool
	TaxCategoryID  shared.ID
	StockOnHand    int
	TrackInventory bool
	Options        []string
	FacetValues    []FacetValue
	ChannelPrices  []ChannelPrice
	Product        *Product

	Price                int64
	PriceWithTax         int64
	CurrencyCode         string
	TaxRateApplied       decimal.Decimal
	TaxRateName          string
	ListPrice            int64
	ListPriceIncludesTax bool
	PricesApplied        bool
}

// NewProductVariant creates an enabled variant priced in a single channel
func NewProductVariant(productID shared.ID, name, sku string, taxCategoryID shared.ID) (*ProductVariant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT_NAME", "Variant name cannot be empty")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Variant SKU cannot be empty")
	}
	if taxCategoryID.IsZero() {
		return nil, shared.NewDomainError("INVALID_TAX_CATEGORY", "Variant needs a tax category")
	}
	return &ProductVariant{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		Name:          strings.TrimSpace(name),
		SKU:           strings.TrimSpace(sku),
		Enabled:       true,
		TaxCategoryID: taxCategoryID,
		FacetValues:   make([]FacetValue, 0),
		ChannelPrices: make([]ChannelPrice, 0),
	}, nil
}

// SetChannelPrice sets or replaces the price for a channel
func (v *ProductVariant) SetChannelPrice(channelID shared.ID, price int64, currencyCode string) error {
	if price < 0 {
		return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	for i := range v.ChannelPrices {
		if v.ChannelPrices[i].ChannelID == channelID {
			v.ChannelPrices[i].Price = price
			v.ChannelPrices[i].CurrencyCode = currencyCode
			return nil
		}
	}
	v.ChannelPrices = append(v.ChannelPrices, ChannelPrice{
		ChannelID:    channelID,
		Price:        price,
		CurrencyCode: currencyCode,
	})
	return nil
}

// ChannelPrice returns the configured price for a channel
func (v *ProductVariant) ChannelPrice(channelID shared.ID) (ChannelPrice, bool) {
	for _, p := range v.ChannelPrices {
		if p.ChannelID == channelID {
			return p, true
		}
	}
	return ChannelPrice{}, false
}

// AppliedPrice is the outcome of applying channel price and tax to a variant
type AppliedPrice struct {
	Price                int64
	PriceWithTax         int64
	CurrencyCode         string
	TaxRate              decimal.Decimal
	TaxRateName          string
	ListPrice            int64
	ListPriceIncludesTax bool
}

// ApplyPrice sets the computed price fields
func (v *ProductVariant) ApplyPrice(p AppliedPrice) {
	v.Price = p.Price
	v.PriceWithTax = p.PriceWithTax
	v.CurrencyCode = p.CurrencyCode
	v.TaxRateApplied = p.TaxRate
	v.TaxRateName = p.TaxRateName
	v.ListPrice = p.ListPrice
	v.ListPriceIncludesTax = p.ListPriceIncludesTax
	v.PricesApplied = true
}

// AllFacetValues returns the variant's own facet values plus those of its product, if loaded
func (v *ProductVariant) AllFacetValues() []FacetValue {
	all := make([]FacetValue, 0, len(v.FacetValues))
	all = append(all, v.FacetValues...)
	if v.Product != nil {
		all = append(all, v.Product.FacetValues...)
	}
	return all
}
