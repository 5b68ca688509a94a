package models

import (
	"github.com/shopfront/backend/internal/domain/geo"
)

// CountryModel is the persistence model for the Country domain entity.
type CountryModel struct {
	BaseModel
	Code    string `gorm:"type:varchar(2);not null;uniqueIndex"`
	Name    string `gorm:"type:varchar(100);not null"`
	Enabled bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string {
	return "countries"
}

// ToDomain converts the persistence model to a domain Country entity.
func (m *CountryModel) ToDomain() *geo.Country {
	return &geo.Country{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Enabled:    m.Enabled,
	}
}

// FromDomain populates the persistence model from a domain Country entity.
func (m *CountryModel) FromDomain(c *geo.Country) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Code = c.Code
	m.Name = c.Name
	m.Enabled = c.Enabled
}

// ZoneModel is the persistence model for the Zone domain entity.
type ZoneModel struct {
	BaseModel
	Name    string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Members []CountryModel `gorm:"many2many:zone_members;joinForeignKey:ZoneID;joinReferences:CountryID"`
}

// TableName returns the table name for GORM
func (ZoneModel) TableName() string {
	return "zones"
}

// ToDomain converts the persistence model to a domain Zone entity.
func (m *ZoneModel) ToDomain() *geo.Zone {
	members := make([]geo.Country, 0, len(m.Members))
	for i := range m.Members {
		members = append(members, *m.Members[i].ToDomain())
	}
	return &geo.Zone{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Members:    members,
	}
}

// FromDomain populates the persistence model from a domain Zone entity.
// Members must already be persisted.
func (m *ZoneModel) FromDomain(z *geo.Zone) {
	m.FromDomainBaseEntity(z.BaseEntity)
	m.Name = z.Name
	m.Members = make([]CountryModel, 0, len(z.Members))
	for i := range z.Members {
		var c CountryModel
		c.FromDomain(&z.Members[i])
		m.Members = append(m.Members, c)
	}
}
