package event

import (
	"context"

	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderActivityLogger writes one structured log entry per order event.
type OrderActivityLogger struct {
	logger *zap.Logger
}

func NewOrderActivityLogger(logger *zap.Logger) *OrderActivityLogger {
	return &OrderActivityLogger{logger: logger.Named("order-activity")}
}

func (h *OrderActivityLogger) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderLineAdded,
		order.EventTypeOrderLineUpdated,
		order.EventTypeOrderLineRemoved,
		order.EventTypeOrderStateTransition,
	}
}

func (h *OrderActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.Uint("order_id", uint(event.AggregateID())),
		zap.Uint("channel_id", uint(event.ChannelID())),
	}
	switch e := event.(type) {
	case *order.OrderLineEvent:
		fields = append(fields,
			zap.Uint("variant_id", uint(e.ProductVariantID)),
			zap.Int("quantity", e.Quantity),
		)
	case *order.OrderStateTransitionEvent:
		fields = append(fields, zap.String("from", string(e.From)), zap.String("to", string(e.To)))
	}
	h.logger.Info("order activity", fields...)
	return nil
}
