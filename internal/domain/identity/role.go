// Package identity holds users, roles, customers, administrators and sessions.
package identity

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Built-in role codes
const (
	SuperAdminRoleCode = "__super_admin_role__"
	CustomerRoleCode   = "__customer_role__"
)

// Permission is a named capability, e.g. "UpdateOrder"
type Permission string

const (
	PermissionAuthenticated Permission = "Authenticated"
	PermissionOwner         Permission = "Owner"
	PermissionSuperAdmin    Permission = "SuperAdmin"
	PermissionReadCatalog   Permission = "ReadCatalog"
	PermissionUpdateCatalog Permission = "UpdateCatalog"
	PermissionReadOrder     Permission = "ReadOrder"
	PermissionUpdateOrder   Permission = "UpdateOrder"
	PermissionReadCustomer  Permission = "ReadCustomer"
	PermissionReadSettings  Permission = "ReadSettings"
)

// AllPermissions is granted to the super admin role
var AllPermissions = []Permission{
	PermissionAuthenticated,
	PermissionOwner,
	PermissionSuperAdmin,
	PermissionReadCatalog,
	PermissionUpdateCatalog,
	PermissionReadOrder,
	PermissionUpdateOrder,
	PermissionReadCustomer,
	PermissionReadSettings,
}

// Role groups permissions granted to users
type Role struct {
	shared.BaseEntity
	Code        string
	Description string
	Permissions []Permission
}

// NewRole creates a role with the given permissions, deduplicated
func NewRole(code, description string, permissions ...Permission) (*Role, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	r := &Role{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        code,
		Description: description,
		Permissions: make([]Permission, 0, len(permissions)),
	}
	for _, p := range permissions {
		r.Grant(p)
	}
	return r, nil
}

// NewSuperAdminRole returns the role holding every permission
func NewSuperAdminRole() *Role {
	r, _ := NewRole(SuperAdminRoleCode, "SuperAdmin", AllPermissions...)
	return r
}

// NewCustomerRole returns the role given to every registered customer
func NewCustomerRole() *Role {
	r, _ := NewRole(CustomerRoleCode, "Customer", PermissionAuthenticated, PermissionOwner)
	return r
}

// Grant adds a permission if not already present
func (r *Role) Grant(p Permission) {
	if r.Has(p) {
		return
	}
	r.Permissions = append(r.Permissions, p)
}

// Has reports whether the role carries the permission
func (r *Role) Has(p Permission) bool {
	for _, existing := range r.Permissions {
		if existing == p {
			return true
		}
	}
	return false
}
