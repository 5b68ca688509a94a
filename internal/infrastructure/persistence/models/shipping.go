package models

import (
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// ShippingMethodModel is the persistence model for the shipping Method entity.
type ShippingMethodModel struct {
	BaseModel
	Code        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       int64           `gorm:"not null;default:0"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ShippingMethodModel) TableName() string {
	return "shipping_methods"
}

// ToDomain converts the persistence model to a domain shipping Method.
func (m *ShippingMethodModel) ToDomain() *shipping.Method {
	return &shipping.Method{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		TaxRate:     m.TaxRate,
	}
}

// FromDomain populates the persistence model from a domain shipping Method.
func (m *ShippingMethodModel) FromDomain(s *shipping.Method) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Code = s.Code
	m.Name = s.Name
	m.Description = s.Description
	m.Price = s.Price
	m.TaxRate = s.TaxRate
}

// PaymentMethodModel is the persistence model for the payment Method entity.
type PaymentMethodModel struct {
	BaseModel
	Code        string            `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name        string            `gorm:"type:varchar(200);not null"`
	Enabled     bool              `gorm:"not null;default:true"`
	HandlerCode string            `gorm:"type:varchar(100);not null"`
	HandlerArgs map[string]string `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain payment Method.
func (m *PaymentMethodModel) ToDomain() *payment.Method {
	args := m.HandlerArgs
	if args == nil {
		args = map[string]string{}
	}
	return &payment.Method{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		Enabled:     m.Enabled,
		HandlerCode: m.HandlerCode,
		HandlerArgs: args,
	}
}

// FromDomain populates the persistence model from a domain payment Method.
func (m *PaymentMethodModel) FromDomain(p *payment.Method) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.Enabled = p.Enabled
	m.HandlerCode = p.HandlerCode
	m.HandlerArgs = p.HandlerArgs
}
