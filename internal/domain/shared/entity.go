package shared

import (
	"fmt"
	"strconv"
	"time"
)

// ID is the numeric primary key shared by all entities.
// It is rendered as a decimal string on the API surface.
type ID uint

// String returns the decimal representation of the ID
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsZero reports whether the ID is unset
func (id ID) IsZero() bool {
	return id == 0
}

// ParseID parses a decimal string into an ID
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, NewDomainError("INVALID_ID", fmt.Sprintf("Invalid ID %q", s))
	}
	return ID(v), nil
}

// IDPtr returns a pointer to id, or nil when the ID is zero
func IDPtr(id ID) *ID {
	if id.IsZero() {
		return nil
	}
	return &id
}

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() ID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch sets UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity. The ID is assigned by the store on insert.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}
