package models

import (
	"time"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// RoleModel is the persistence model for the Role domain entity.
type RoleModel struct {
	BaseModel
	Code        string   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string   `gorm:"type:varchar(200)"`
	Permissions []string `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role entity.
func (m *RoleModel) ToDomain() *identity.Role {
	perms := make([]identity.Permission, 0, len(m.Permissions))
	for _, p := range m.Permissions {
		perms = append(perms, identity.Permission(p))
	}
	return &identity.Role{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Description: m.Description,
		Permissions: perms,
	}
}

// FromDomain populates the persistence model from a domain Role entity.
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Code = r.Code
	m.Description = r.Description
	m.Permissions = make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		m.Permissions = append(m.Permissions, string(p))
	}
}

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	BaseModel
	Identifier   string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	Verified     bool        `gorm:"not null;default:false"`
	LastLogin    *time.Time  `gorm:"type:timestamp"`
	Roles        []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	roles := make([]identity.Role, 0, len(m.Roles))
	for i := range m.Roles {
		roles = append(roles, *m.Roles[i].ToDomain())
	}
	return &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		Identifier:        m.Identifier,
		PasswordHash:      m.PasswordHash,
		Verified:          m.Verified,
		Roles:             roles,
		LastLogin:         m.LastLogin,
	}
}

// FromDomain populates the persistence model from a domain User.
// Roles must already be persisted.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Identifier = u.Identifier
	m.PasswordHash = u.PasswordHash
	m.Verified = u.Verified
	m.LastLogin = u.LastLogin
	m.Roles = make([]RoleModel, 0, len(u.Roles))
	for i := range u.Roles {
		var r RoleModel
		r.FromDomain(&u.Roles[i])
		m.Roles = append(m.Roles, r)
	}
}

// CustomerModel is the persistence model for the Customer entity.
type CustomerModel struct {
	BaseModel
	Title        string     `gorm:"type:varchar(20)"`
	FirstName    string     `gorm:"type:varchar(100)"`
	LastName     string     `gorm:"type:varchar(100)"`
	EmailAddress string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PhoneNumber  string     `gorm:"type:varchar(50)"`
	UserID       *shared.ID `gorm:"index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *identity.Customer {
	return &identity.Customer{
		BaseEntity:   m.BaseModel.ToDomain(),
		Title:        m.Title,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		EmailAddress: m.EmailAddress,
		PhoneNumber:  m.PhoneNumber,
		UserID:       m.UserID,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *identity.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Title = c.Title
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.EmailAddress = c.EmailAddress
	m.PhoneNumber = c.PhoneNumber
	m.UserID = c.UserID
}

// AdministratorModel is the persistence model for the Administrator entity.
type AdministratorModel struct {
	BaseModel
	FirstName    string    `gorm:"type:varchar(100)"`
	LastName     string    `gorm:"type:varchar(100)"`
	EmailAddress string    `gorm:"type:varchar(255);not null"`
	UserID       shared.ID `gorm:"not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (AdministratorModel) TableName() string {
	return "administrators"
}

// ToDomain converts the persistence model to a domain Administrator.
func (m *AdministratorModel) ToDomain() *identity.Administrator {
	return &identity.Administrator{
		BaseEntity:   m.BaseModel.ToDomain(),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		EmailAddress: m.EmailAddress,
		UserID:       m.UserID,
	}
}

// FromDomain populates the persistence model from a domain Administrator.
func (m *AdministratorModel) FromDomain(a *identity.Administrator) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.FirstName = a.FirstName
	m.LastName = a.LastName
	m.EmailAddress = a.EmailAddress
	m.UserID = a.UserID
}

// SessionModel is the persistence model for the Session entity.
type SessionModel struct {
	BaseModel
	Token                  string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	ExpiresAt              time.Time  `gorm:"not null"`
	Invalidated            bool       `gorm:"not null;default:false"`
	UserID                 *shared.ID `gorm:"index"`
	ActiveOrderID          *shared.ID
	ActiveChannelID        *shared.ID
	AuthenticationStrategy string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}

// ToDomain converts the persistence model to a domain Session.
func (m *SessionModel) ToDomain() *identity.Session {
	return &identity.Session{
		BaseEntity:             m.BaseModel.ToDomain(),
		Token:                  m.Token,
		ExpiresAt:              m.ExpiresAt,
		Invalidated:            m.Invalidated,
		UserID:                 m.UserID,
		ActiveOrderID:          m.ActiveOrderID,
		ActiveChannelID:        m.ActiveChannelID,
		AuthenticationStrategy: m.AuthenticationStrategy,
	}
}

// FromDomain populates the persistence model from a domain Session.
func (m *SessionModel) FromDomain(s *identity.Session) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Token = s.Token
	m.ExpiresAt = s.ExpiresAt
	m.Invalidated = s.Invalidated
	m.UserID = s.UserID
	m.ActiveOrderID = s.ActiveOrderID
	m.ActiveChannelID = s.ActiveChannelID
	m.AuthenticationStrategy = s.AuthenticationStrategy
}
