package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// NativeAuthStrategy is the username/password authentication strategy name
const NativeAuthStrategy = "native"

// Session is a persisted browsing session. Anonymous sessions have no user.
type Session struct {
	shared.BaseEntity
	Token                  string
	ExpiresAt              time.Time
	Invalidated            bool
	UserID                 *shared.ID
	ActiveOrderID          *shared.ID
	ActiveChannelID        *shared.ID
	AuthenticationStrategy string
}

// NewSessionToken returns a fresh opaque session token
func NewSessionToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewAnonymousSession creates a session not tied to any user
func NewAnonymousSession(channelID shared.ID, duration time.Duration) *Session {
	return &Session{
		BaseEntity:      shared.NewBaseEntity(),
		Token:           NewSessionToken(),
		ExpiresAt:       time.Now().Add(duration),
		ActiveChannelID: shared.IDPtr(channelID),
	}
}

// NewAuthenticatedSession creates a session for a user
func NewAuthenticatedSession(userID, channelID shared.ID, strategy string, duration time.Duration) (*Session, error) {
	if userID.IsZero() {
		return nil, shared.NewDomainError("INVALID_USER_ID", "Authenticated session needs a user")
	}
	s := NewAnonymousSession(channelID, duration)
	s.UserID = shared.IDPtr(userID)
	s.AuthenticationStrategy = strategy
	return s, nil
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsValid reports whether the session can still be used
func (s *Session) IsValid(now time.Time) bool {
	return !s.Invalidated && !s.IsExpired(now)
}

// SetActiveOrder points the session at an order; nil clears it
func (s *Session) SetActiveOrder(orderID *shared.ID) {
	s.ActiveOrderID = orderID
	s.Touch()
}

// Invalidate marks the session unusable
func (s *Session) Invalidate() {
	s.Invalidated = true
	s.Touch()
}

// CachedSessionUser is the user part of a cached session
type CachedSessionUser struct {
	ID          shared.ID    `json:"id"`
	Identifier  string       `json:"identifier"`
	Verified    bool         `json:"verified"`
	Permissions []Permission `json:"permissions"`
}

// CachedSession is the session payload carried by a request context
type CachedSession struct {
	ID                     shared.ID          `json:"id"`
	Token                  string             `json:"token"`
	ExpiresAt              time.Time          `json:"expires"`
	CacheExpiry            int64              `json:"cacheExpiry"`
	ActiveOrderID          *shared.ID         `json:"activeOrderId,omitempty"`
	ActiveChannelID        *shared.ID         `json:"activeChannelId,omitempty"`
	AuthenticationStrategy string             `json:"authenticationStrategy,omitempty"`
	User                   *CachedSessionUser `json:"user,omitempty"`
}

// NewCachedSession serializes a session (and its user, if any) for caching
func NewCachedSession(s *Session, user *User, ttl time.Duration) *CachedSession {
	cs := &CachedSession{
		ID:                     s.ID,
		Token:                  s.Token,
		ExpiresAt:              s.ExpiresAt,
		CacheExpiry:            time.Now().Add(ttl).Unix(),
		ActiveOrderID:          s.ActiveOrderID,
		ActiveChannelID:        s.ActiveChannelID,
		AuthenticationStrategy: s.AuthenticationStrategy,
	}
	if user != nil {
		cs.User = &CachedSessionUser{
			ID:          user.ID,
			Identifier:  user.Identifier,
			Verified:    user.Verified,
			Permissions: user.Permissions(),
		}
	}
	return cs
}

// Clone returns a deep copy, so holders of the copy cannot change the original
func (c *CachedSession) Clone() *CachedSession {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ActiveOrderID != nil {
		id := *c.ActiveOrderID
		cp.ActiveOrderID = &id
	}
	if c.ActiveChannelID != nil {
		id := *c.ActiveChannelID
		cp.ActiveChannelID = &id
	}
	if c.User != nil {
		user := *c.User
		user.Permissions = append([]Permission(nil), c.User.Permissions...)
		cp.User = &user
	}
	return &cp
}

// UserID returns the session user's ID, or zero for anonymous sessions
func (c *CachedSession) UserID() shared.ID {
	if c == nil || c.User == nil {
		return 0
	}
	return c.User.ID
}

// IsAuthenticated reports whether the session belongs to a user
func (c *CachedSession) IsAuthenticated() bool {
	return c.UserID() != 0
}

// HasPermission reports whether the session user holds p
func (c *CachedSession) HasPermission(p Permission) bool {
	if c == nil || c.User == nil {
		return false
	}
	for _, have := range c.User.Permissions {
		if have == p {
			return true
		}
	}
	return false
}
