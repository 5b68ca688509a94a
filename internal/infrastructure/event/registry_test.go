package event

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type mockHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newMockHandler(eventTypes ...string) *mockHandler {
	return &mockHandler{eventTypes: eventTypes}
}

func (h *mockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *mockHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler(order.EventTypeOrderCreated, order.EventTypeOrderLineAdded)

	registry.Register(handler, order.EventTypeOrderCreated, order.EventTypeOrderLineAdded)

	handlers := registry.GetHandlers(order.EventTypeOrderCreated)
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers(order.EventTypeOrderLineAdded)
	assert.Len(t, handlers, 1)

	assert.Empty(t, registry.GetHandlers(order.EventTypeOrderLineRemoved))
}

func TestHandlerRegistry_Register_Twice(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler()

	registry.Register(handler, order.EventTypeOrderCreated)
	registry.Register(handler, order.EventTypeOrderCreated)

	assert.Len(t, registry.GetHandlers(order.EventTypeOrderCreated), 1)
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler()

	registry.Register(handler)

	assert.Len(t, registry.GetHandlers(order.EventTypeOrderCreated), 1)
	assert.Len(t, registry.GetHandlers("anything.else"), 1)
}

func TestHandlerRegistry_Register_MixedTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := newMockHandler(order.EventTypeOrderCreated)
	wildcard := newMockHandler()

	registry.Register(specific, order.EventTypeOrderCreated)
	registry.Register(wildcard)

	handlers := registry.GetHandlers(order.EventTypeOrderCreated)
	assert.Equal(t, []shared.EventHandler{specific, wildcard}, handlers)

	handlers = registry.GetHandlers(order.EventTypeOrderLineAdded)
	assert.Equal(t, []shared.EventHandler{wildcard}, handlers)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := newMockHandler()
	second := newMockHandler()
	wildcard := newMockHandler()

	registry.Register(first, order.EventTypeOrderCreated)
	registry.Register(second, order.EventTypeOrderCreated)
	registry.Register(wildcard)

	registry.Unregister(first)
	registry.Unregister(wildcard)

	handlers := registry.GetHandlers(order.EventTypeOrderCreated)
	assert.Equal(t, []shared.EventHandler{second}, handlers)

	registry.Unregister(second)
	assert.Empty(t, registry.GetHandlers(order.EventTypeOrderCreated))
	assert.Empty(t, registry.GetAllHandlers())
}

func TestHandlerRegistry_GetAllHandlers_NoDuplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler()
	other := newMockHandler()

	registry.Register(handler, order.EventTypeOrderCreated, order.EventTypeOrderLineAdded)
	registry.Register(other)

	assert.Len(t, registry.GetAllHandlers(), 2)
}
