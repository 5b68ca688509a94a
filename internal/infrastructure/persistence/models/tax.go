package models

import (
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// TaxCategoryModel is the persistence model for the tax Category entity.
type TaxCategoryModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null"`
	IsDefault bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TaxCategoryModel) TableName() string {
	return "tax_categories"
}

// ToDomain converts the persistence model to a domain tax Category.
func (m *TaxCategoryModel) ToDomain() *tax.Category {
	return &tax.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		IsDefault:  m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain tax Category.
func (m *TaxCategoryModel) FromDomain(c *tax.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.IsDefault = c.IsDefault
}

// TaxRateModel is the persistence model for the tax Rate entity.
type TaxRateModel struct {
	BaseModel
	Name       string          `gorm:"type:varchar(200);not null"`
	Value      decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	Enabled    bool            `gorm:"not null;default:true"`
	CategoryID shared.ID       `gorm:"not null;index:idx_tax_rate_zone_category,priority:2"`
	ZoneID     shared.ID       `gorm:"not null;index:idx_tax_rate_zone_category,priority:1"`
}

// TableName returns the table name for GORM
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// ToDomain converts the persistence model to a domain tax Rate.
func (m *TaxRateModel) ToDomain() *tax.Rate {
	return &tax.Rate{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Value:      m.Value,
		Enabled:    m.Enabled,
		CategoryID: m.CategoryID,
		ZoneID:     m.ZoneID,
	}
}

// FromDomain populates the persistence model from a domain tax Rate.
func (m *TaxRateModel) FromDomain(r *tax.Rate) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Name = r.Name
	m.Value = r.Value
	m.Enabled = r.Enabled
	m.CategoryID = r.CategoryID
	m.ZoneID = r.ZoneID
}
