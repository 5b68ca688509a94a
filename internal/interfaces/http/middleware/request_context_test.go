package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannels struct {
	ch *channel.Channel
}

func (s *stubChannels) GetChannelFromToken(_ context.Context, token string) (*channel.Channel, error) {
	if token != "" && token != s.ch.Token {
		return nil, shared.NewDomainError("CHANNEL_NOT_FOUND", "No channel with the token \""+token+"\" exists")
	}
	return s.ch, nil
}

type stubSessions struct {
	sessions map[string]*identity.CachedSession
	err      error
}

func (s *stubSessions) GetSessionFromToken(_ context.Context, token string) (*identity.CachedSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

// stubTokens accepts "bearer-<session token>"
type stubTokens struct{}

func (stubTokens) Parse(token string) (string, error) {
	const prefix = "bearer-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", errors.New("invalid token")
	}
	return token[len(prefix):], nil
}

func newContextRouter(t *testing.T, api reqctx.APIType, sessions *stubSessions) (*gin.Engine, **reqctx.RequestContext) {
	t.Helper()
	ch, err := channel.NewChannel(channel.DefaultChannelCode, "default-token", "en", "USD")
	require.NoError(t, err)
	ch.ID = 1

	var captured *reqctx.RequestContext
	router := gin.New()
	router.Use(RequestID(), RequestContext(
		RequestContextConfig{APIType: api, ChannelTokenHeader: "shopfront-token"},
		&stubChannels{ch: ch}, sessions, stubTokens{},
	))
	router.POST("/api", func(c *gin.Context) {
		captured, _ = reqctx.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router, &captured
}

func TestRequestContext(t *testing.T) {
	customer := &identity.CachedSession{
		Token: "s1",
		User:  &identity.CachedSessionUser{ID: 2, Identifier: "hayden.zieme12@hotmail.com"},
	}
	sessions := &stubSessions{sessions: map[string]*identity.CachedSession{"s1": customer}}

	t.Run("anonymous request", func(t *testing.T) {
		router, captured := newContextRouter(t, reqctx.APITypeShop, sessions)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api", nil))

		require.Equal(t, http.StatusOK, w.Code)
		rc := *captured
		require.NotNil(t, rc)
		assert.Equal(t, shared.ID(1), rc.ChannelID())
		assert.Nil(t, rc.Session())
		assert.False(t, rc.IsAuthorized())
		assert.True(t, rc.AuthorizedAsOwnerOnly())
		assert.NotEmpty(t, rc.RequestID())
		assert.Equal(t, "en", rc.LanguageCode())
	})

	t.Run("authenticated request", func(t *testing.T) {
		router, captured := newContextRouter(t, reqctx.APITypeShop, sessions)
		req := httptest.NewRequest(http.MethodPost, "/api?languageCode=de-AT", nil)
		req.Header.Set("Authorization", "Bearer bearer-s1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		rc := *captured
		assert.Same(t, customer, rc.Session())
		assert.True(t, rc.IsAuthorized())
		assert.Equal(t, shared.ID(2), rc.ActiveUserID())
		assert.Equal(t, "de-AT", rc.LanguageCode())
	})

	t.Run("invalid bearer stays anonymous", func(t *testing.T) {
		router, captured := newContextRouter(t, reqctx.APITypeAdmin, sessions)
		req := httptest.NewRequest(http.MethodPost, "/api", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		rc := *captured
		assert.Nil(t, rc.Session())
		assert.False(t, rc.AuthorizedAsOwnerOnly())
	})

	t.Run("unknown channel token", func(t *testing.T) {
		router, captured := newContextRouter(t, reqctx.APITypeShop, sessions)
		req := httptest.NewRequest(http.MethodPost, "/api", nil)
		req.Header.Set("shopfront-token", "nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "CHANNEL_NOT_FOUND")
		assert.Nil(t, *captured)
	})

	t.Run("session lookup failure", func(t *testing.T) {
		router, _ := newContextRouter(t, reqctx.APITypeShop, &stubSessions{err: errors.New("db down")})
		req := httptest.NewRequest(http.MethodPost, "/api", nil)
		req.Header.Set("Authorization", "Bearer bearer-s1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
