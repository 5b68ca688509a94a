package order

import (
	"context"
	"errors"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order-related business operations
type OrderService struct {
	orderRepo    order.Repository
	variantRepo  catalog.VariantRepository
	customerRepo identity.CustomerRepository
	calculator   *OrderCalculator
	publisher    shared.EventPublisher
	limits       order.Limits
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.Repository,
	variantRepo catalog.VariantRepository,
	customerRepo identity.CustomerRepository,
	calculator *OrderCalculator,
	publisher shared.EventPublisher,
	limits order.Limits,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		variantRepo:  variantRepo,
		customerRepo: customerRepo,
		calculator:   calculator,
		publisher:    publisher,
		limits:       limits,
		logger:       logger,
	}
}

// Create creates an empty order in the request's channel. A non-zero userID
// assigns the order to that user's customer.
func (s *OrderService) Create(ctx context.Context, rc *reqctx.RequestContext, userID shared.ID) (*order.Order, error) {
	ch := rc.Channel()
	if ch == nil {
		return nil, shared.NewDomainError("NO_CHANNEL", "Request has no channel")
	}
	o, err := order.NewOrder(ch.ID, ch.CurrencyCode, ch.PricesIncludeTax)
	if err != nil {
		return nil, err
	}
	if !userID.IsZero() {
		customerID, err := s.customerIDForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !customerID.IsZero() {
			o.SetCustomer(customerID)
		}
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	o.AddDomainEvent(order.NewOrderCreatedEvent(o))
	s.publishEvents(ctx, o)

	s.logger.Info("Order created",
		zap.Stringer("order_id", o.ID),
		zap.String("code", o.Code),
		zap.Stringer("user_id", userID))
	return o, nil
}

// FindOne returns an order of the request's channel. Owner-only requests
// only see orders of their own customer.
func (s *OrderService) FindOne(ctx context.Context, rc *reqctx.RequestContext, id shared.ID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.ChannelID != rc.ChannelID() {
		return nil, shared.ErrNotFound
	}
	if rc.AuthorizedAsOwnerOnly() {
		owned, err := s.IsOwnedBy(ctx, o, rc.ActiveUserID())
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, shared.ErrNotFound
		}
	}
	return o, nil
}

// FindByCode returns an order by its code
func (s *OrderService) FindByCode(ctx context.Context, rc *reqctx.RequestContext, code string) (*order.Order, error) {
	o, err := s.orderRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.ChannelID != rc.ChannelID() {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

// FindAll lists orders
func (s *OrderService) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[order.Order], error) {
	return s.orderRepo.FindAll(ctx, opts.Normalize())
}

// IsOwnedBy reports whether the order belongs to the user's customer.
// Anonymous orders are owned by whoever holds the session.
func (s *OrderService) IsOwnedBy(ctx context.Context, o *order.Order, userID shared.ID) (bool, error) {
	if o.CustomerID == nil {
		return true, nil
	}
	if userID.IsZero() {
		return false, nil
	}
	customerID, err := s.customerIDForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return o.BelongsTo(customerID), nil
}

// GetActiveOrderForUser returns the user's latest active order in the channel, or nil
func (s *OrderService) GetActiveOrderForUser(ctx context.Context, rc *reqctx.RequestContext, userID shared.ID) (*order.Order, error) {
	customerID, err := s.customerIDForUser(ctx, userID)
	if err != nil || customerID.IsZero() {
		return nil, err
	}
	o, err := s.orderRepo.FindActiveForCustomer(ctx, customerID, rc.ChannelID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// AddItemToOrder adds quantity of a variant to the order. Expected failures
// are returned as an ErrorResult; an InsufficientStockError still carries the
// order when part of the quantity could be added.
func (s *OrderService) AddItemToOrder(ctx context.Context, rc *reqctx.RequestContext, orderID, variantID shared.ID, quantity int) (*order.Order, shared.ErrorResult, error) {
	o, err := s.FindOne(ctx, rc, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !o.CanModify() {
		return nil, order.NewOrderModificationError(), nil
	}
	if quantity < 0 {
		return nil, order.NewNegativeQuantityError(), nil
	}
	variant, err := s.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, nil, err
	}
	if !variant.Enabled {
		return nil, nil, shared.ErrNotFound
	}

	toAdd := quantity
	var stockErr *order.InsufficientStockError
	if variant.TrackInventory {
		existing := 0
		if line := o.LineForVariant(variantID); line != nil {
			existing = line.Quantity
		}
		available := variant.StockOnHand - existing
		if available < 0 {
			available = 0
		}
		if available < quantity {
			if available == 0 {
				return nil, order.NewInsufficientStockError(0, o), nil
			}
			toAdd = available
			stockErr = order.NewInsufficientStockError(available, o)
		}
	}

	if _, er := o.AddItem(variantID, toAdd, s.limits); er != nil {
		return nil, er, nil
	}
	if err := s.applyPricesAndSave(ctx, rc, o); err != nil {
		return nil, nil, err
	}

	s.logger.Debug("Item added to order",
		zap.String("code", o.Code),
		zap.Stringer("product_variant_id", variantID),
		zap.Int("quantity", toAdd))

	if stockErr != nil {
		return o, stockErr, nil
	}
	return o, nil, nil
}

// AdjustOrderLine sets the quantity of a line; zero removes it
func (s *OrderService) AdjustOrderLine(ctx context.Context, rc *reqctx.RequestContext, orderID, lineID shared.ID, quantity int) (*order.Order, shared.ErrorResult, error) {
	o, err := s.FindOne(ctx, rc, orderID)
	if err != nil {
		return nil, nil, err
	}
	er, err := o.AdjustLine(lineID, quantity, s.limits)
	if err != nil || er != nil {
		return nil, er, err
	}
	if err := s.applyPricesAndSave(ctx, rc, o); err != nil {
		return nil, nil, err
	}
	return o, nil, nil
}

// RemoveOrderLine removes a line from the order
func (s *OrderService) RemoveOrderLine(ctx context.Context, rc *reqctx.RequestContext, orderID, lineID shared.ID) (*order.Order, shared.ErrorResult, error) {
	o, err := s.FindOne(ctx, rc, orderID)
	if err != nil {
		return nil, nil, err
	}
	er, err := o.RemoveLine(lineID)
	if err != nil || er != nil {
		return nil, er, err
	}
	if err := s.applyPricesAndSave(ctx, rc, o); err != nil {
		return nil, nil, err
	}
	return o, nil, nil
}

// SetShippingMethod chooses a shipping method for the order
func (s *OrderService) SetShippingMethod(ctx context.Context, rc *reqctx.RequestContext, orderID, methodID shared.ID) (*order.Order, shared.ErrorResult, error) {
	o, err := s.FindOne(ctx, rc, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !o.CanModify() {
		return nil, order.NewOrderModificationError(), nil
	}
	o.ShippingMethodID = shared.IDPtr(methodID)
	if err := s.applyPricesAndSave(ctx, rc, o); err != nil {
		return nil, nil, err
	}
	return o, nil, nil
}

// EligibleShippingMethods lists shipping methods priced for the order
func (s *OrderService) EligibleShippingMethods(ctx context.Context, rc *reqctx.RequestContext, orderID shared.ID) ([]ShippingQuote, error) {
	o, err := s.FindOne(ctx, rc, orderID)
	if err != nil {
		return nil, err
	}
	return s.calculator.EligibleShippingMethods(ctx, o)
}

func (s *OrderService) applyPricesAndSave(ctx context.Context, rc *reqctx.RequestContext, o *order.Order) error {
	if err := s.calculator.ApplyPrices(ctx, rc, o); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return err
	}
	s.publishEvents(ctx, o)
	return nil
}

func (s *OrderService) customerIDForUser(ctx context.Context, userID shared.ID) (shared.ID, error) {
	customer, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return customer.ID, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("code", o.Code), zap.Error(err))
	}
}
