package identity

import (
	"context"
	"errors"
	"time"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SessionCache stores serialized sessions by token
type SessionCache interface {
	// Get returns the cached session, or nil when the token is not cached
	Get(ctx context.Context, token string) (*identity.CachedSession, error)
	Set(ctx context.Context, session *identity.CachedSession) error
	Delete(ctx context.Context, token string) error
}

// SessionService creates, resolves and updates sessions
type SessionService struct {
	sessionRepo identity.SessionRepository
	userRepo    identity.UserRepository
	cache       SessionCache
	config      SessionConfig
	logger      *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo identity.SessionRepository,
	userRepo identity.UserRepository,
	cache SessionCache,
	config SessionConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		cache:       cache,
		config:      config,
		logger:      logger,
	}
}

// CreateAnonymousSession starts a session without a user
func (s *SessionService) CreateAnonymousSession(ctx context.Context, channelID shared.ID) (*identity.CachedSession, error) {
	session := identity.NewAnonymousSession(channelID, s.config.SessionDuration)
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.cacheSession(ctx, session, nil)
}

// CreateAuthenticatedSession starts a session for user. An active order of the
// previous (usually anonymous) session is carried over, and that session is invalidated.
func (s *SessionService) CreateAuthenticatedSession(ctx context.Context, previous *identity.CachedSession, user *identity.User, channelID shared.ID, strategy string) (*identity.CachedSession, error) {
	session, err := identity.NewAuthenticatedSession(user.ID, channelID, strategy, s.config.SessionDuration)
	if err != nil {
		return nil, err
	}
	if previous != nil && previous.ActiveOrderID != nil {
		session.SetActiveOrder(previous.ActiveOrderID)
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	if previous != nil && previous.Token != "" {
		if err := s.DeleteSessionByToken(ctx, previous.Token); err != nil {
			s.logger.Warn("Failed to invalidate previous session", zap.Error(err))
		}
	}
	return s.cacheSession(ctx, session, user)
}

// GetSessionFromToken resolves a token to a session, consulting the cache first.
// It returns nil without error when the token is unknown, invalidated or expired.
func (s *SessionService) GetSessionFromToken(ctx context.Context, token string) (*identity.CachedSession, error) {
	if token == "" {
		return nil, nil
	}
	cached, err := s.cache.Get(ctx, token)
	if err != nil {
		s.logger.Warn("Session cache read failed", zap.Error(err))
	}
	now := time.Now()
	if cached != nil {
		if cached.CacheExpiry > now.Unix() && now.Before(cached.ExpiresAt) {
			return cached, nil
		}
		_ = s.cache.Delete(ctx, token)
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !session.IsValid(now) {
		return nil, nil
	}
	var user *identity.User
	if session.UserID != nil {
		user, err = s.userRepo.FindByID(ctx, *session.UserID)
		if err != nil {
			return nil, err
		}
	}
	return s.cacheSession(ctx, session, user)
}

// SetActiveOrder points the session at an order and refreshes the cache.
// It returns the updated cached session.
func (s *SessionService) SetActiveOrder(ctx context.Context, cs *identity.CachedSession, orderID *shared.ID) (*identity.CachedSession, error) {
	session, err := s.sessionRepo.FindByToken(ctx, cs.Token)
	if err != nil {
		return nil, err
	}
	session.SetActiveOrder(orderID)
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	updated := *cs
	updated.ActiveOrderID = orderID
	if err := s.cache.Set(ctx, &updated); err != nil {
		s.logger.Warn("Session cache write failed", zap.Error(err))
	}
	return &updated, nil
}

// UnsetActiveOrder clears the session's active order
func (s *SessionService) UnsetActiveOrder(ctx context.Context, cs *identity.CachedSession) (*identity.CachedSession, error) {
	return s.SetActiveOrder(ctx, cs, nil)
}

// DeleteSessionByToken invalidates a session and evicts it from the cache
func (s *SessionService) DeleteSessionByToken(ctx context.Context, token string) error {
	if err := s.sessionRepo.InvalidateByToken(ctx, token); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return s.cache.Delete(ctx, token)
}

// PurgeStaleSessions deletes sessions that expired or were invalidated before now.
// Cached copies age out on their own TTL.
func (s *SessionService) PurgeStaleSessions(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.sessionRepo.DeleteStale(ctx, now)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Purged stale sessions", zap.Int64("count", deleted))
	}
	return deleted, nil
}

func (s *SessionService) cacheSession(ctx context.Context, session *identity.Session, user *identity.User) (*identity.CachedSession, error) {
	cs := identity.NewCachedSession(session, user, s.config.CacheTTL)
	if err := s.cache.Set(ctx, cs); err != nil {
		s.logger.Warn("Session cache write failed", zap.Error(err))
	}
	return cs, nil
}
