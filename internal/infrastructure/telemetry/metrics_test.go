package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphQLMetrics_Observe(t *testing.T) {
	reg := NewRegistry()
	m, err := NewGraphQLMetrics(reg)
	require.NoError(t, err)

	m.Observe("shop", "AddItemToOrder", StatusOK, 20*time.Millisecond)
	m.Observe("shop", "AddItemToOrder", StatusOK, 10*time.Millisecond)
	m.Observe("shop", "AddItemToOrder", StatusErrorResult, time.Millisecond)
	m.Observe("admin", "", StatusError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("shop", "AddItemToOrder", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("shop", "AddItemToOrder", StatusErrorResult)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("admin", "anonymous", StatusError)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestGraphQLMetrics_DuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	_, err := NewGraphQLMetrics(reg)
	require.NoError(t, err)

	_, err = NewGraphQLMetrics(reg)
	assert.Error(t, err)
}

func TestOrderEventCounter(t *testing.T) {
	reg := NewRegistry()
	c, err := NewOrderEventCounter(reg)
	require.NoError(t, err)

	o := &order.Order{ChannelID: 1}
	o.ID = 1
	ctx := context.Background()
	require.NoError(t, c.Handle(ctx, order.NewOrderCreatedEvent(o)))
	require.NoError(t, c.Handle(ctx, order.NewOrderLineEvent(order.EventTypeOrderLineAdded, o, &order.Line{ProductVariantID: shared.ID(1), Quantity: 1})))
	require.NoError(t, c.Handle(ctx, order.NewOrderLineEvent(order.EventTypeOrderLineAdded, o, &order.Line{ProductVariantID: shared.ID(2), Quantity: 1})))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues(order.EventTypeOrderCreated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.events.WithLabelValues(order.EventTypeOrderLineAdded)))
	assert.Contains(t, c.EventTypes(), order.EventTypeOrderLineAdded)
}

func TestRegistry_Handler(t *testing.T) {
	reg := NewRegistry()
	m, err := NewGraphQLMetrics(reg)
	require.NoError(t, err)
	m.Observe("shop", "activeOrder", StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shopfront_graphql_operations_total{api="shop",operation="activeOrder",status="ok"} 1`)
}

func TestJobMetrics_Observe(t *testing.T) {
	reg := NewRegistry()
	m, err := NewJobMetrics(reg)
	require.NoError(t, err)

	m.Observe("session-cleanup", "SUCCESS", 0)
	m.Observe("session-cleanup", "SUCCESS", 2)
	m.Observe("session-cleanup", "FAILED", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("session-cleanup", "SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("session-cleanup", "FAILED")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.retries.WithLabelValues("session-cleanup")))
}
