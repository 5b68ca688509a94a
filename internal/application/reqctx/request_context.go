// Package reqctx carries the per-request state every application service
// needs: the channel, the API surface, authorization flags and the session.
package reqctx

import (
	"context"

	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// APIType identifies which GraphQL API a request came through
type APIType string

const (
	APITypeShop  APIType = "shop"
	APITypeAdmin APIType = "admin"
)

// Options configures a RequestContext
type Options struct {
	Channel               *channel.Channel
	APIType               APIType
	IsAuthorized          bool
	AuthorizedAsOwnerOnly bool
	Session               *identity.CachedSession
	LanguageCode          string
	RequestID             string
}

// RequestContext is immutable once built; use the With* methods to derive a copy.
type RequestContext struct {
	channel               *channel.Channel
	apiType               APIType
	isAuthorized          bool
	authorizedAsOwnerOnly bool
	session               *identity.CachedSession
	languageCode          string
	requestID             string
}

// New builds a RequestContext. It is also used to construct contexts outside
// of any HTTP request, e.g. in jobs and tests.
func New(opts Options) *RequestContext {
	lang := opts.LanguageCode
	if lang == "" && opts.Channel != nil {
		lang = opts.Channel.DefaultLanguageCode
	}
	apiType := opts.APIType
	if apiType == "" {
		apiType = APITypeAdmin
	}
	return &RequestContext{
		channel:               opts.Channel,
		apiType:               apiType,
		isAuthorized:          opts.IsAuthorized,
		authorizedAsOwnerOnly: opts.AuthorizedAsOwnerOnly,
		session:               opts.Session,
		languageCode:          lang,
		requestID:             opts.RequestID,
	}
}

// Channel returns the channel of the request
func (rc *RequestContext) Channel() *channel.Channel { return rc.channel }

// ChannelID returns the channel ID, or zero when no channel is set
func (rc *RequestContext) ChannelID() shared.ID {
	if rc.channel == nil {
		return 0
	}
	return rc.channel.ID
}

// APIType returns the API the request came through
func (rc *RequestContext) APIType() APIType { return rc.apiType }

// IsAuthorized reports whether the caller passed permission checks
func (rc *RequestContext) IsAuthorized() bool { return rc.isAuthorized }

// AuthorizedAsOwnerOnly reports whether access is limited to the caller's own entities
func (rc *RequestContext) AuthorizedAsOwnerOnly() bool { return rc.authorizedAsOwnerOnly }

// Session returns the cached session, which may be nil
func (rc *RequestContext) Session() *identity.CachedSession { return rc.session }

// ActiveUserID returns the session user ID, or zero for anonymous requests
func (rc *RequestContext) ActiveUserID() shared.ID { return rc.session.UserID() }

// LanguageCode returns the request language
func (rc *RequestContext) LanguageCode() string { return rc.languageCode }

// RequestID returns the transport request ID, if any
func (rc *RequestContext) RequestID() string { return rc.requestID }

// WithSession returns a copy bound to another session
func (rc *RequestContext) WithSession(s *identity.CachedSession) *RequestContext {
	cp := *rc
	cp.session = s
	return &cp
}

// WithAuthorization returns a copy with updated authorization flags
func (rc *RequestContext) WithAuthorization(isAuthorized, ownerOnly bool) *RequestContext {
	cp := *rc
	cp.isAuthorized = isAuthorized
	cp.authorizedAsOwnerOnly = ownerOnly
	return &cp
}

type ctxKey struct{}

// WithContext stores the RequestContext in ctx
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the RequestContext stored in ctx
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return rc, ok && rc != nil
}
