package order

import (
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated         = "order.created"
	EventTypeOrderLineAdded       = "order.line_added"
	EventTypeOrderLineUpdated     = "order.line_updated"
	EventTypeOrderLineRemoved     = "order.line_removed"
	EventTypeOrderStateTransition = "order.state_transition"
)

// OrderCreatedEvent is raised once a new order has been stored
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	Code       string     `json:"code"`
	CustomerID *shared.ID `json:"customer_id,omitempty"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.ChannelID),
		Code:            o.Code,
		CustomerID:      o.CustomerID,
	}
}

// OrderLineEvent is raised when a line is added, updated or removed
type OrderLineEvent struct {
	shared.BaseDomainEvent
	Code             string    `json:"code"`
	ProductVariantID shared.ID `json:"product_variant_id"`
	Quantity         int       `json:"quantity"`
}

// NewOrderLineEvent creates an OrderLineEvent of the given type
func NewOrderLineEvent(eventType string, o *Order, line *Line) *OrderLineEvent {
	return &OrderLineEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID, o.ChannelID),
		Code:             o.Code,
		ProductVariantID: line.ProductVariantID,
		Quantity:         line.Quantity,
	}
}

// OrderStateTransitionEvent is raised on every state change
type OrderStateTransitionEvent struct {
	shared.BaseDomainEvent
	From State `json:"from"`
	To   State `json:"to"`
}

// NewOrderStateTransitionEvent creates a new OrderStateTransitionEvent
func NewOrderStateTransitionEvent(o *Order, from, to State) *OrderStateTransitionEvent {
	return &OrderStateTransitionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStateTransition, AggregateTypeOrder, o.ID, o.ChannelID),
		From:            from,
		To:              to,
	}
}
