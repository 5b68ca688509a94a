// Package shipping defines the shipping methods offered to customers.
package shipping

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// Method is a flat-rate shipping method
type Method struct {
	shared.BaseEntity
	Code        string
	Name        string
	Description string
	Price       int64           // minor units
	TaxRate     decimal.Decimal // percent applied on top of Price
}

// NewMethod creates a shipping method with a code derived from its name
func NewMethod(name string, price int64) (*Method, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SHIPPING_METHOD_NAME", "Shipping method name cannot be empty")
	}
	if price < 0 {
		return nil, shared.NewDomainError("INVALID_SHIPPING_PRICE", "Shipping price cannot be negative")
	}
	return &Method{
		BaseEntity: shared.NewBaseEntity(),
		Code:       shared.Slugify(name),
		Name:       name,
		Price:      price,
		TaxRate:    decimal.Zero,
	}, nil
}

// PriceWithTax returns the tax-inclusive shipping price
func (m *Method) PriceWithTax() int64 {
	return tax.Rate{Value: m.TaxRate}.GrossPriceOf(m.Price)
}

// Repository persists shipping methods
type Repository interface {
	FindByID(ctx context.Context, id shared.ID) (*Method, error)
	FindAll(ctx context.Context) ([]Method, error)
	Save(ctx context.Context, m *Method) error
}
