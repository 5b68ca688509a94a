package identity

import (
	"context"
	"errors"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo  identity.UserRepository
	adminRepo identity.AdministratorRepository
	sessions  *SessionService
	publisher shared.EventPublisher
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	adminRepo identity.AdministratorRepository,
	sessions *SessionService,
	publisher shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		sessions:  sessions,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// Authenticate verifies native credentials and creates an authenticated session.
// Expected failures are returned as an ErrorResult, not as an error.
func (s *AuthService) Authenticate(ctx context.Context, rc *reqctx.RequestContext, input LoginInput) (*AuthResult, shared.ErrorResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username), zap.String("api", string(rc.APIType())))

	user, err := s.userRepo.FindByIdentifier(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", input.Username))
			return nil, identity.NewInvalidCredentialsError("unknown identifier"), nil
		}
		return nil, nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, identity.NewInvalidCredentialsError("password mismatch"), nil
	}

	if rc.APIType() == reqctx.APITypeAdmin {
		if _, err := s.adminRepo.FindByUserID(ctx, user.ID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, identity.NewInvalidCredentialsError("not an administrator"), nil
			}
			return nil, nil, err
		}
	} else if s.config.RequireVerification && !user.Verified {
		return nil, identity.NewNotVerifiedError(), nil
	}

	session, err := s.sessions.CreateAuthenticatedSession(ctx, rc.Session(), user, rc.ChannelID(), identity.NativeAuthStrategy)
	if err != nil {
		return nil, nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, identity.NewUserLoginEvent(user, rc.ChannelID(), identity.NativeAuthStrategy)); err != nil {
			s.logger.Warn("Failed to publish login event", zap.Error(err))
		}
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Identifier),
		zap.Stringer("user_id", user.ID))

	return &AuthResult{
		Session: session,
		User: CurrentUser{
			ID:          user.ID,
			Identifier:  user.Identifier,
			Permissions: user.Permissions(),
		},
	}, nil, nil
}

// Logout invalidates the request's session
func (s *AuthService) Logout(ctx context.Context, rc *reqctx.RequestContext) error {
	session := rc.Session()
	if session == nil || session.Token == "" {
		return nil
	}
	s.logger.Info("User logout", zap.Stringer("user_id", rc.ActiveUserID()))
	return s.sessions.DeleteSessionByToken(ctx, session.Token)
}

// Me returns the current user of the request, or nil for anonymous requests
func (s *AuthService) Me(rc *reqctx.RequestContext) *CurrentUser {
	session := rc.Session()
	if !session.IsAuthenticated() {
		return nil
	}
	return &CurrentUser{
		ID:          session.User.ID,
		Identifier:  session.User.Identifier,
		Permissions: session.User.Permissions,
	}
}
