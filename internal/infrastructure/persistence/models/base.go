package models

import (
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        shared.ID `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// aggregateRoot rebuilds a domain aggregate root from base fields
func (m *BaseModel) aggregateRoot() shared.BaseAggregateRoot {
	root := shared.NewBaseAggregateRoot()
	root.BaseEntity = m.ToDomain()
	return root
}

// All lists every model for AutoMigrate, in dependency order
func All() []any {
	return []any{
		&ChannelModel{},
		&CountryModel{},
		&ZoneModel{},
		&TaxCategoryModel{},
		&TaxRateModel{},
		&ShippingMethodModel{},
		&PaymentMethodModel{},
		&FacetModel{},
		&FacetValueModel{},
		&ProductModel{},
		&ProductVariantModel{},
		&ProductVariantPriceModel{},
		&CollectionModel{},
		&RoleModel{},
		&UserModel{},
		&CustomerModel{},
		&AdministratorModel{},
		&SessionModel{},
		&OrderModel{},
		&OrderLineModel{},
	}
}
