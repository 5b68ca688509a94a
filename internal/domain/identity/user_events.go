package identity

import (
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated = "UserCreated"
	EventTypeUserLogin   = "UserLogin"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Identifier string `json:"identifier"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, 0),
		Identifier:      user.Identifier,
	}
}

// UserLoginEvent is published after successful authentication
type UserLoginEvent struct {
	shared.BaseDomainEvent
	Identifier string `json:"identifier"`
	Strategy   string `json:"strategy"`
}

// NewUserLoginEvent creates a new UserLoginEvent
func NewUserLoginEvent(user *User, channelID shared.ID, strategy string) *UserLoginEvent {
	return &UserLoginEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLogin, AggregateTypeUser, user.ID, channelID),
		Identifier:      user.Identifier,
		Strategy:        strategy,
	}
}
