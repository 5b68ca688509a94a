// Package auth issues and verifies the bearer tokens that carry session tokens.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingSession   = errors.New("missing session in claims")
)

// Claims are the JWT claims of a session bearer token
type Claims struct {
	jwt.RegisteredClaims
	Session string `json:"sid"`
}

// TokenService signs session tokens into bearer tokens and back
type TokenService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewTokenService creates a new TokenService. Without a configured secret a
// random one is generated, so tokens do not survive a restart. A non-positive
// session duration falls back to config.DefaultSessionDuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	secret := cfg.TokenSecret
	if secret == "" {
		secret = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	}
	expiration := cfg.SessionDuration
	if expiration <= 0 {
		expiration = config.DefaultSessionDuration
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     cfg.TokenIssuer,
		expiration: expiration,
	}
}

// Issue wraps a session token into a signed bearer token
func (s *TokenService) Issue(sessionToken string, expiresAt time.Time) (string, error) {
	if sessionToken == "" {
		return "", ErrMissingSession
	}
	now := time.Now()
	if expiresAt.IsZero() {
		expiresAt = now.Add(s.expiration)
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Session: sessionToken,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a bearer token and returns the session token it carries
func (s *TokenService) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return "", ErrTokenNotYetValid
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidClaims
	}
	if claims.Session == "" {
		return "", ErrMissingSession
	}
	return claims.Session, nil
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>" header value
func ExtractBearer(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
