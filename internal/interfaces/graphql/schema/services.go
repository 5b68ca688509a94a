// Package schema builds the shop and admin GraphQL schemas on top of the
// application services.
package schema

import (
	"context"
	"errors"
	"sync"

	"github.com/graphql-go/graphql"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	appidentity "github.com/shopfront/backend/internal/application/identity"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/application/reqctx"
	apptax "github.com/shopfront/backend/internal/application/tax"
	"github.com/shopfront/backend/internal/domain/geo"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
)

// Services are the application services the resolvers call
type Services struct {
	Sessions        *appidentity.SessionService
	Auth            *appidentity.AuthService
	Customers       *appidentity.CustomerService
	Orders          *apporder.OrderService
	ActiveOrders    *apporder.ActiveOrderService
	Variants        *appcatalog.ProductVariantService
	Collections     *appcatalog.CollectionService
	Taxes           *apptax.TaxService
	Countries       geo.CountryRepository
	Zones           geo.ZoneRepository
	ShippingMethods shipping.Repository
	PaymentMethods  payment.Repository
}

var (
	// ErrNoRequestContext means the transport did not attach a RequestContext
	ErrNoRequestContext = errors.New("graphql: request context missing")
	// ErrNoActiveOrder is returned by line mutations when the session has no order
	ErrNoActiveOrder = shared.NewDomainError("NO_ACTIVE_ORDER", "No active order found for the current session")
)

// RequestState collects what resolvers hand back to the transport:
// a session to issue a new token for, and whether an error result was returned.
type RequestState struct {
	mu           sync.Mutex
	session      *identity.CachedSession
	rc           *reqctx.RequestContext
	cleared      bool
	errorResults int
}

type requestStateKey struct{}

// WithRequestState attaches a fresh RequestState to ctx
func WithRequestState(ctx context.Context) (context.Context, *RequestState) {
	st := &RequestState{}
	return context.WithValue(ctx, requestStateKey{}, st), st
}

func requestStateFrom(ctx context.Context) *RequestState {
	if st, ok := ctx.Value(requestStateKey{}).(*RequestState); ok {
		return st
	}
	return &RequestState{}
}

// IssuedSession returns the session created during the request, if any
func (s *RequestState) IssuedSession() *identity.CachedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SessionCleared reports whether the request ended the caller's session
func (s *RequestState) SessionCleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// ErrorResults is the number of error results returned as data
func (s *RequestState) ErrorResults() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorResults
}

func (s *RequestState) issue(cs *identity.CachedSession, rc *reqctx.RequestContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = cs
	s.rc = rc
	s.cleared = false
}

func (s *RequestState) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.rc = nil
	s.cleared = true
}

func (s *RequestState) recordErrorResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorResults++
}

// requestContext returns the request's RequestContext, switched to a session
// issued earlier in the same request.
func requestContext(ctx context.Context) (*reqctx.RequestContext, error) {
	rc, ok := reqctx.FromContext(ctx)
	if !ok {
		return nil, ErrNoRequestContext
	}
	st := requestStateFrom(ctx)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.rc != nil {
		return st.rc, nil
	}
	return rc, nil
}

// ensureSession starts an anonymous session when the caller has none
func ensureSession(ctx context.Context, svc *Services) (*reqctx.RequestContext, error) {
	rc, err := requestContext(ctx)
	if err != nil {
		return nil, err
	}
	if rc.Session() != nil {
		return rc, nil
	}
	cs, err := svc.Sessions.CreateAnonymousSession(ctx, rc.ChannelID())
	if err != nil {
		return nil, err
	}
	rc = rc.WithSession(cs)
	requestStateFrom(ctx).issue(cs, rc)
	return rc, nil
}

// errorResultOrValue hands an error result to the client as data
func errorResultOrValue(ctx context.Context, value any, result shared.ErrorResult, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if result != nil {
		requestStateFrom(ctx).recordErrorResult()
		return result, nil
	}
	return value, nil
}

func idArg(p graphql.ResolveParams, name string) (shared.ID, error) {
	raw, ok := p.Args[name]
	if !ok || raw == nil {
		return 0, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, shared.ErrInvalidInput
	}
	return shared.ParseID(s)
}

func intArg(p graphql.ResolveParams, name string) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return 0
}

func stringArg(p graphql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}
	return ""
}
