package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ChannelResolver finds the channel addressed by a channel token
type ChannelResolver interface {
	GetChannelFromToken(ctx context.Context, token string) (*channel.Channel, error)
}

// SessionResolver finds a live session by its token
type SessionResolver interface {
	GetSessionFromToken(ctx context.Context, token string) (*identity.CachedSession, error)
}

// TokenParser extracts the session token from a bearer token
type TokenParser interface {
	Parse(token string) (string, error)
}

// RequestContextConfig configures the RequestContext middleware
type RequestContextConfig struct {
	APIType            reqctx.APIType
	ChannelTokenHeader string
}

// RequestContext resolves channel and session for the request and attaches
// a reqctx.RequestContext to the request context. Unknown or expired bearer
// tokens leave the request anonymous.
func RequestContext(cfg RequestContextConfig, channels ChannelResolver, sessions SessionResolver, tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := logger.GetGinLogger(c)

		ch, err := channels.GetChannelFromToken(ctx, c.GetHeader(cfg.ChannelTokenHeader))
		if err != nil {
			log.Warn("Channel not resolved", zap.Error(err))
			abortWithGraphQLError(c, http.StatusBadRequest, "CHANNEL_NOT_FOUND", err.Error())
			return
		}

		var session *identity.CachedSession
		if bearer := auth.ExtractBearer(c.GetHeader("Authorization")); bearer != "" {
			sessionToken, err := tokens.Parse(bearer)
			if err != nil {
				log.Debug("Ignoring invalid bearer token", zap.Error(err))
			} else {
				session, err = sessions.GetSessionFromToken(ctx, sessionToken)
				if err != nil {
					log.Error("Session lookup failed", zap.Error(err))
					abortWithGraphQLError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Session lookup failed")
					return
				}
			}
		}

		rc := reqctx.New(reqctx.Options{
			Channel:               ch,
			APIType:               cfg.APIType,
			IsAuthorized:          session.IsAuthenticated(),
			AuthorizedAsOwnerOnly: cfg.APIType == reqctx.APITypeShop,
			Session:               session,
			LanguageCode:          languageCode(c.Query("languageCode")),
			RequestID:             c.GetString(logger.GinRequestIDKey),
		})

		ctx = reqctx.WithContext(ctx, rc)
		ctx = logger.WithChannel(ctx, ch.Code)
		if session.IsAuthenticated() {
			ctx = logger.WithUserID(ctx, session.UserID().String())
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// languageCode normalizes a BCP 47 tag; invalid tags fall back to the channel default
func languageCode(raw string) string {
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	return tag.String()
}

func abortWithGraphQLError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"errors": []gin.H{{
			"message":    message,
			"extensions": gin.H{"code": code},
		}},
	})
}
