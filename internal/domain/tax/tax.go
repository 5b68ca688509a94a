// Package tax defines tax categories and the per-zone rates applied to them.
package tax

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Category groups products that are taxed the same way
type Category struct {
	shared.BaseEntity
	Name      string
	IsDefault bool
}

// NewCategory creates a tax category
func NewCategory(name string, isDefault bool) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TAX_CATEGORY_NAME", "Tax category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		IsDefault:  isDefault,
	}, nil
}

// Matches reports whether the given name or short code refers to this category.
// "standard" matches "Standard Tax"; comparison is case-insensitive.
func (c *Category) Matches(nameOrCode string) bool {
	want := normalize(nameOrCode)
	if want == "" {
		return false
	}
	have := normalize(c.Name)
	if have == want {
		return true
	}
	first := strings.SplitN(have, " ", 2)[0]
	return first == want
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Rate is the percentage applied to a tax category within a zone
type Rate struct {
	shared.BaseEntity
	Name       string
	Value      decimal.Decimal // percent, e.g. 20 for 20%
	Enabled    bool
	CategoryID shared.ID
	ZoneID     shared.ID
}

// NewRate creates an enabled tax rate
func NewRate(name string, percent decimal.Decimal, categoryID, zoneID shared.ID) (*Rate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_TAX_RATE_NAME", "Tax rate name cannot be empty")
	}
	if percent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if categoryID.IsZero() || zoneID.IsZero() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate needs a category and a zone")
	}
	return &Rate{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Value:      percent,
		Enabled:    true,
		CategoryID: categoryID,
		ZoneID:     zoneID,
	}, nil
}

// ZeroRate is the rate used when no rate is configured for a zone and category
func ZeroRate() Rate {
	return Rate{Name: "No configured tax rate", Value: decimal.Zero, Enabled: true}
}

// TaxPayableOn returns the tax due on a net amount in minor units
func (r Rate) TaxPayableOn(net int64) int64 {
	return decimal.NewFromInt(net).Mul(r.Value).Div(hundred).Round(0).IntPart()
}

// GrossPriceOf returns the tax-inclusive amount of a net amount
func (r Rate) GrossPriceOf(net int64) int64 {
	return net + r.TaxPayableOn(net)
}

// NetPriceOf returns the net amount contained in a tax-inclusive amount
func (r Rate) NetPriceOf(gross int64) int64 {
	factor := decimal.NewFromInt(1).Add(r.Value.Div(hundred))
	return decimal.NewFromInt(gross).Div(factor).Round(0).IntPart()
}

// TaxComponentOf returns the tax contained in a tax-inclusive amount
func (r Rate) TaxComponentOf(gross int64) int64 {
	return gross - r.NetPriceOf(gross)
}
