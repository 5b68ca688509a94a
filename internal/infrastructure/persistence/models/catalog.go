package models

import (
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// FacetModel is the persistence model for the Facet domain entity.
type FacetModel struct {
	BaseModel
	Code   string            `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name   string            `gorm:"type:varchar(200);not null"`
	Values []FacetValueModel `gorm:"foreignKey:FacetID"`
}

// TableName returns the table name for GORM
func (FacetModel) TableName() string {
	return "facets"
}

// ToDomain converts the persistence model to a domain Facet entity.
func (m *FacetModel) ToDomain() *catalog.Facet {
	values := make([]catalog.FacetValue, 0, len(m.Values))
	for i := range m.Values {
		values = append(values, m.Values[i].ToDomain())
	}
	return &catalog.Facet{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Values:     values,
	}
}

// FromDomain populates the persistence model from a domain Facet entity.
func (m *FacetModel) FromDomain(f *catalog.Facet) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.Code = f.Code
	m.Name = f.Name
	m.Values = make([]FacetValueModel, 0, len(f.Values))
	for _, v := range f.Values {
		m.Values = append(m.Values, FacetValueModelFromDomain(v))
	}
}

// FacetValueModel is the persistence model for the FacetValue entity.
type FacetValueModel struct {
	BaseModel
	FacetID shared.ID `gorm:"not null;index"`
	Code    string    `gorm:"type:varchar(100);not null"`
	Name    string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (FacetValueModel) TableName() string {
	return "facet_values"
}

// ToDomain converts the persistence model to a domain FacetValue.
func (m *FacetValueModel) ToDomain() catalog.FacetValue {
	return catalog.FacetValue{
		BaseEntity: m.BaseModel.ToDomain(),
		FacetID:    m.FacetID,
		Code:       m.Code,
		Name:       m.Name,
	}
}

// FacetValueModelFromDomain creates a persistence model from a domain FacetValue.
func FacetValueModelFromDomain(v catalog.FacetValue) FacetValueModel {
	m := FacetValueModel{FacetID: v.FacetID, Code: v.Code, Name: v.Name}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

func facetValuesToDomain(models []FacetValueModel) []catalog.FacetValue {
	values := make([]catalog.FacetValue, 0, len(models))
	for i := range models {
		values = append(values, models[i].ToDomain())
	}
	return values
}

func facetValuesFromDomain(values []catalog.FacetValue) []FacetValueModel {
	models := make([]FacetValueModel, 0, len(values))
	for _, v := range values {
		models = append(models, FacetValueModelFromDomain(v))
	}
	return models
}

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	BaseModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Slug        string                `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string                `gorm:"type:text"`
	Enabled     bool                  `gorm:"not null;default:true"`
	FacetValues []FacetValueModel     `gorm:"many2many:product_facet_values;joinForeignKey:ProductID;joinReferences:FacetValueID"`
	Variants    []ProductVariantModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	variants := make([]catalog.ProductVariant, 0, len(m.Variants))
	for i := range m.Variants {
		variants = append(variants, *m.Variants[i].ToDomain())
	}
	return &catalog.Product{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		Enabled:           m.Enabled,
		FacetValues:       facetValuesToDomain(m.FacetValues),
		Variants:          variants,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.Enabled = p.Enabled
	m.FacetValues = facetValuesFromDomain(p.FacetValues)
	m.Variants = make([]ProductVariantModel, 0, len(p.Variants))
	for i := range p.Variants {
		var v ProductVariantModel
		v.FromDomain(&p.Variants[i])
		m.Variants = append(m.Variants, v)
	}
}

// ProductVariantModel is the persistence model for the ProductVariant entity.
// Computed price fields of the domain entity are not persisted.
type ProductVariantModel struct {
	BaseModel
	ProductID      shared.ID                  `gorm:"not null;index"`
	Name           string                     `gorm:"type:varchar(300);not null"`
	SKU            string                     `gorm:"type:varchar(100);not null;index"`
	Enabled        bool                       `gorm:"not null;default:true"`
	TaxCategoryID  shared.ID                  `gorm:"not null;index"`
	StockOnHand    int                        `gorm:"not null;default:0"`
	TrackInventory bool                       `gorm:"not null;default:false"`
	Options        []string                   `gorm:"serializer:json"`
	FacetValues    []FacetValueModel          `gorm:"many2many:product_variant_facet_values;joinForeignKey:VariantID;joinReferences:FacetValueID"`
	ChannelPrices  []ProductVariantPriceModel `gorm:"foreignKey:VariantID"`
	Product        *ProductModel              `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain ProductVariant.
func (m *ProductVariantModel) ToDomain() *catalog.ProductVariant {
	prices := make([]catalog.ChannelPrice, 0, len(m.ChannelPrices))
	for _, p := range m.ChannelPrices {
		prices = append(prices, catalog.ChannelPrice{
			ChannelID:    p.ChannelID,
			Price:        p.Price,
			CurrencyCode: p.CurrencyCode,
		})
	}
	v := &catalog.ProductVariant{
		BaseEntity:     m.BaseModel.ToDomain(),
		ProductID:      m.ProductID,
		Name:           m.Name,
		SKU:            m.SKU,
		Enabled:        m.Enabled,
		TaxCategoryID:  m.TaxCategoryID,
		StockOnHand:    m.StockOnHand,
		TrackInventory: m.TrackInventory,
		Options:        m.Options,
		FacetValues:    facetValuesToDomain(m.FacetValues),
		ChannelPrices:  prices,
	}
	if m.Product != nil {
		v.Product = m.Product.ToDomain()
	}
	return v
}

// FromDomain populates the persistence model from a domain ProductVariant.
// The Product relation is not copied.
func (m *ProductVariantModel) FromDomain(v *catalog.ProductVariant) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.ProductID = v.ProductID
	m.Name = v.Name
	m.SKU = v.SKU
	m.Enabled = v.Enabled
	m.TaxCategoryID = v.TaxCategoryID
	m.StockOnHand = v.StockOnHand
	m.TrackInventory = v.TrackInventory
	m.Options = v.Options
	m.FacetValues = facetValuesFromDomain(v.FacetValues)
	m.ChannelPrices = make([]ProductVariantPriceModel, 0, len(v.ChannelPrices))
	for _, p := range v.ChannelPrices {
		m.ChannelPrices = append(m.ChannelPrices, ProductVariantPriceModel{
			VariantID:    v.ID,
			ChannelID:    p.ChannelID,
			Price:        p.Price,
			CurrencyCode: p.CurrencyCode,
		})
	}
}

// ProductVariantPriceModel is a variant's price in one channel
type ProductVariantPriceModel struct {
	BaseModel
	VariantID    shared.ID `gorm:"not null;uniqueIndex:idx_variant_price_channel,priority:1"`
	ChannelID    shared.ID `gorm:"not null;uniqueIndex:idx_variant_price_channel,priority:2"`
	Price        int64     `gorm:"not null"`
	CurrencyCode string    `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (ProductVariantPriceModel) TableName() string {
	return "product_variant_prices"
}

// CollectionModel is the persistence model for the Collection entity.
type CollectionModel struct {
	BaseModel
	Name     string                          `gorm:"type:varchar(200);not null"`
	Slug     string                          `gorm:"type:varchar(200);not null;uniqueIndex"`
	IsRoot   bool                            `gorm:"not null;default:false"`
	Position int                             `gorm:"not null;default:0"`
	Filters  []catalog.ConfigurableOperation `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	return &catalog.Collection{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
		IsRoot:     m.IsRoot,
		Position:   m.Position,
		Filters:    m.Filters,
	}
}

// FromDomain populates the persistence model from a domain Collection.
func (m *CollectionModel) FromDomain(c *catalog.Collection) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.IsRoot = c.IsRoot
	m.Position = c.Position
	m.Filters = c.Filters
}
