package models

import (
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ChannelModel is the persistence model for the Channel domain entity.
type ChannelModel struct {
	BaseModel
	Code                  string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Token                 string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	DefaultLanguageCode   string     `gorm:"type:varchar(20);not null"`
	CurrencyCode          string     `gorm:"type:varchar(3);not null"`
	PricesIncludeTax      bool       `gorm:"not null;default:false"`
	DefaultTaxZoneID      *shared.ID `gorm:"index"`
	DefaultShippingZoneID *shared.ID `gorm:"index"`
}

// TableName returns the table name for GORM
func (ChannelModel) TableName() string {
	return "channels"
}

// ToDomain converts the persistence model to a domain Channel entity.
func (m *ChannelModel) ToDomain() *channel.Channel {
	return &channel.Channel{
		BaseEntity:            m.BaseModel.ToDomain(),
		Code:                  m.Code,
		Token:                 m.Token,
		DefaultLanguageCode:   m.DefaultLanguageCode,
		CurrencyCode:          m.CurrencyCode,
		PricesIncludeTax:      m.PricesIncludeTax,
		DefaultTaxZoneID:      m.DefaultTaxZoneID,
		DefaultShippingZoneID: m.DefaultShippingZoneID,
	}
}

// FromDomain populates the persistence model from a domain Channel entity.
func (m *ChannelModel) FromDomain(c *channel.Channel) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Code = c.Code
	m.Token = c.Token
	m.DefaultLanguageCode = c.DefaultLanguageCode
	m.CurrencyCode = c.CurrencyCode
	m.PricesIncludeTax = c.PricesIncludeTax
	m.DefaultTaxZoneID = c.DefaultTaxZoneID
	m.DefaultShippingZoneID = c.DefaultShippingZoneID
}
