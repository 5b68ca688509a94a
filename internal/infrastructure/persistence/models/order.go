package models

import (
	"time"

	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	BaseModel
	Code                string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	State               string     `gorm:"type:varchar(30);not null;index"`
	Active              bool       `gorm:"not null;default:true;index"`
	CustomerID          *shared.ID `gorm:"index"`
	ChannelID           shared.ID  `gorm:"not null;index"`
	CurrencyCode        string     `gorm:"type:varchar(3);not null"`
	PricesIncludeTax    bool       `gorm:"not null;default:false"`
	ShippingMethodID    *shared.ID
	ShippingCountryCode string `gorm:"type:varchar(2)"`
	SubTotal            int64  `gorm:"not null;default:0"`
	SubTotalWithTax     int64  `gorm:"not null;default:0"`
	Shipping            int64  `gorm:"not null;default:0"`
	ShippingWithTax     int64  `gorm:"not null;default:0"`
	Total               int64  `gorm:"not null;default:0"`
	TotalWithTax        int64  `gorm:"not null;default:0"`
	TotalQuantity       int    `gorm:"not null;default:0"`
	OrderPlacedAt       *time.Time
	Lines               []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	lines := make([]order.Line, 0, len(m.Lines))
	for i := range m.Lines {
		lines = append(lines, m.Lines[i].ToDomain())
	}
	return &order.Order{
		BaseAggregateRoot:   m.aggregateRoot(),
		Code:                m.Code,
		State:               order.State(m.State),
		Active:              m.Active,
		CustomerID:          m.CustomerID,
		ChannelID:           m.ChannelID,
		CurrencyCode:        m.CurrencyCode,
		PricesIncludeTax:    m.PricesIncludeTax,
		ShippingMethodID:    m.ShippingMethodID,
		ShippingCountryCode: m.ShippingCountryCode,
		Lines:               lines,
		SubTotal:            m.SubTotal,
		SubTotalWithTax:     m.SubTotalWithTax,
		Shipping:            m.Shipping,
		ShippingWithTax:     m.ShippingWithTax,
		Total:               m.Total,
		TotalWithTax:        m.TotalWithTax,
		TotalQuantity:       m.TotalQuantity,
		OrderPlacedAt:       m.OrderPlacedAt,
	}
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Code = o.Code
	m.State = string(o.State)
	m.Active = o.Active
	m.CustomerID = o.CustomerID
	m.ChannelID = o.ChannelID
	m.CurrencyCode = o.CurrencyCode
	m.PricesIncludeTax = o.PricesIncludeTax
	m.ShippingMethodID = o.ShippingMethodID
	m.ShippingCountryCode = o.ShippingCountryCode
	m.SubTotal = o.SubTotal
	m.SubTotalWithTax = o.SubTotalWithTax
	m.Shipping = o.Shipping
	m.ShippingWithTax = o.ShippingWithTax
	m.Total = o.Total
	m.TotalWithTax = o.TotalWithTax
	m.TotalQuantity = o.TotalQuantity
	m.OrderPlacedAt = o.OrderPlacedAt
	m.Lines = make([]OrderLineModel, 0, len(o.Lines))
	for i := range o.Lines {
		m.Lines = append(m.Lines, OrderLineModelFromDomain(o.ID, &o.Lines[i]))
	}
}

// OrderLineModel is the persistence model for an order line.
type OrderLineModel struct {
	BaseModel
	OrderID              shared.ID            `gorm:"not null;index"`
	ProductVariantID     shared.ID            `gorm:"not null;index"`
	ProductVariant       *ProductVariantModel `gorm:"foreignKey:ProductVariantID"`
	Quantity             int                  `gorm:"not null"`
	ListPrice            int64                `gorm:"not null"`
	ListPriceIncludesTax bool                 `gorm:"not null;default:false"`
	UnitPrice            int64                `gorm:"not null"`
	UnitPriceWithTax     int64                `gorm:"not null"`
	TaxRate              decimal.Decimal      `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Line.
// The variant is mapped only when it was preloaded.
func (m *OrderLineModel) ToDomain() order.Line {
	l := order.Line{
		BaseEntity:           m.BaseModel.ToDomain(),
		OrderID:              m.OrderID,
		ProductVariantID:     m.ProductVariantID,
		Quantity:             m.Quantity,
		ListPrice:            m.ListPrice,
		ListPriceIncludesTax: m.ListPriceIncludesTax,
		UnitPrice:            m.UnitPrice,
		UnitPriceWithTax:     m.UnitPriceWithTax,
		TaxRate:              m.TaxRate,
	}
	if m.ProductVariant != nil {
		l.ProductVariant = m.ProductVariant.ToDomain()
	}
	return l
}

// OrderLineModelFromDomain creates a persistence model from a domain Line.
// The variant relation is never written through the line.
func OrderLineModelFromDomain(orderID shared.ID, l *order.Line) OrderLineModel {
	m := OrderLineModel{
		OrderID:              orderID,
		ProductVariantID:     l.ProductVariantID,
		Quantity:             l.Quantity,
		ListPrice:            l.ListPrice,
		ListPriceIncludesTax: l.ListPriceIncludesTax,
		UnitPrice:            l.UnitPrice,
		UnitPriceWithTax:     l.UnitPriceWithTax,
		TaxRate:              l.TaxRate,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}
