package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured
const DefaultBcryptCost = 12

// User is a login identity. Customers and administrators each reference one.
type User struct {
	shared.BaseAggregateRoot
	Identifier   string
	PasswordHash string
	Verified     bool
	Roles        []Role
	LastLogin    *time.Time
}

// NewUser creates a user with a hashed password. The identifier is lower-cased.
func NewUser(identifier, password string, cost int) (*User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return nil, shared.NewDomainError("INVALID_IDENTIFIER", "User identifier cannot be empty")
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Identifier:        identifier,
		Roles:             make([]Role, 0),
	}
	if err := u.SetPassword(password, cost); err != nil {
		return nil, err
	}
	u.AddDomainEvent(NewUserCreatedEvent(u))
	return u, nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string, cost int) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// MarkVerified marks the user's identifier as verified
func (u *User) MarkVerified() {
	u.Verified = true
	u.Touch()
}

// AssignRole adds a role unless the user already has one with the same code
func (u *User) AssignRole(role Role) {
	if u.HasRole(role.Code) {
		return
	}
	u.Roles = append(u.Roles, role)
	u.Touch()
}

// HasRole checks if user has a role with the given code
func (u *User) HasRole(code string) bool {
	for _, r := range u.Roles {
		if r.Code == code {
			return true
		}
	}
	return false
}

// HasPermission reports whether any of the user's roles grants p
func (u *User) HasPermission(p Permission) bool {
	for i := range u.Roles {
		if u.Roles[i].Has(p) {
			return true
		}
	}
	return false
}

// Permissions returns the union of all role permissions
func (u *User) Permissions() []Permission {
	seen := make(map[Permission]bool)
	out := make([]Permission, 0)
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLogin = &now
	u.UpdatedAt = now
}

// Customer is a shopper, optionally registered through a User
type Customer struct {
	shared.BaseEntity
	Title        string
	FirstName    string
	LastName     string
	EmailAddress string
	PhoneNumber  string
	UserID       *shared.ID
}

// NewCustomer creates a customer after validating the email address
func NewCustomer(firstName, lastName, emailAddress string) (*Customer, error) {
	email, err := normalizeEmail(emailAddress)
	if err != nil {
		return nil, err
	}
	return &Customer{
		BaseEntity:   shared.NewBaseEntity(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		EmailAddress: email,
	}, nil
}

// FullName returns "First Last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Administrator is a back-office user
type Administrator struct {
	shared.BaseEntity
	FirstName    string
	LastName     string
	EmailAddress string
	UserID       shared.ID
}

// NewAdministrator creates an administrator for an existing user
func NewAdministrator(firstName, lastName, emailAddress string, userID shared.ID) (*Administrator, error) {
	if userID.IsZero() {
		return nil, shared.NewDomainError("INVALID_USER_ID", "Administrator needs a user")
	}
	return &Administrator{
		BaseEntity:   shared.NewBaseEntity(),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		EmailAddress: strings.TrimSpace(emailAddress),
		UserID:       userID,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email address cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email address format")
	}
	return email, nil
}
