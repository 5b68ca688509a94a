package order

import (
	"context"
	"errors"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SessionUpdater changes the active order recorded on a session
type SessionUpdater interface {
	SetActiveOrder(ctx context.Context, cs *identity.CachedSession, orderID *shared.ID) (*identity.CachedSession, error)
}

// ErrNoActiveSession is returned when the request carries no session
var ErrNoActiveSession = shared.NewDomainError("NO_ACTIVE_SESSION", "There is no active session")

// ActiveOrderService resolves the order a shop session is working on
type ActiveOrderService struct {
	orders   *OrderService
	sessions SessionUpdater
	logger   *zap.Logger
}

// NewActiveOrderService creates a new ActiveOrderService
func NewActiveOrderService(orders *OrderService, sessions SessionUpdater, logger *zap.Logger) *ActiveOrderService {
	return &ActiveOrderService{orders: orders, sessions: sessions, logger: logger}
}

// GetActiveOrder returns the session's active order. The session's recorded
// order is used while it is still active, in the request's channel and owned
// by the session user; otherwise the user's latest active order; otherwise
// nil, or a new order when create is set. An orderCode selects an order
// explicitly instead of the session; owner-only requests still only see
// their own orders that way.
//
// The returned order carries its lines without loaded product variants.
func (s *ActiveOrderService) GetActiveOrder(ctx context.Context, rc *reqctx.RequestContext, orderCode *string, create bool) (*order.Order, error) {
	if orderCode != nil {
		o, err := s.orders.FindByCode(ctx, rc, *orderCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) && create {
				return s.orders.Create(ctx, rc, rc.ActiveUserID())
			}
			return nil, err
		}
		if !o.Active {
			return nil, shared.ErrNotFound
		}
		if rc.AuthorizedAsOwnerOnly() {
			owned, err := s.orders.IsOwnedBy(ctx, o, rc.ActiveUserID())
			if err != nil {
				return nil, err
			}
			if !owned {
				return nil, shared.ErrNotFound
			}
		}
		return o, nil
	}

	session := rc.Session()
	if session == nil {
		return nil, ErrNoActiveSession
	}
	userID := rc.ActiveUserID()

	var active *order.Order
	if session.ActiveOrderID != nil {
		o, err := s.orders.FindOne(ctx, rc, *session.ActiveOrderID)
		switch {
		case err == nil:
			if o.Active && o.ChannelID == rc.ChannelID() {
				owned, err := s.orders.IsOwnedBy(ctx, o, userID)
				if err != nil {
					return nil, err
				}
				if owned {
					active = o
				}
			}
		case errors.Is(err, shared.ErrNotFound):
		default:
			return nil, err
		}
		if active == nil {
			s.logger.Debug("Session active order is stale", zap.Stringer("order_id", *session.ActiveOrderID))
			s.updateSession(ctx, session, nil)
		}
	}

	if active == nil && !userID.IsZero() {
		o, err := s.orders.GetActiveOrderForUser(ctx, rc, userID)
		if err != nil {
			return nil, err
		}
		active = o
	}

	if active == nil && create {
		o, err := s.orders.Create(ctx, rc, userID)
		if err != nil {
			return nil, err
		}
		active = o
	}

	if active != nil && (session.ActiveOrderID == nil || *session.ActiveOrderID != active.ID) {
		s.updateSession(ctx, session, shared.IDPtr(active.ID))
	}
	return active, nil
}

// updateSession records the active order on persisted sessions. Sessions
// built in code (no token) are left alone.
func (s *ActiveOrderService) updateSession(ctx context.Context, session *identity.CachedSession, orderID *shared.ID) {
	if s.sessions == nil || session.Token == "" {
		return
	}
	if _, err := s.sessions.SetActiveOrder(ctx, session, orderID); err != nil {
		s.logger.Warn("Failed to update session active order", zap.Error(err))
	}
}
