package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func newTracedRouter(t *testing.T, tp trace.TracerProvider, sessions *stubSessions) *gin.Engine {
	t.Helper()
	ch, err := channel.NewChannel(channel.DefaultChannelCode, "default-token", "en", "USD")
	require.NoError(t, err)
	ch.ID = 1

	router := gin.New()
	router.Use(
		Tracing(TracingConfig{Enabled: true, ServiceName: "shopfront", TracerProvider: tp}),
		RequestID(),
		RequestContext(
			RequestContextConfig{APIType: reqctx.APITypeShop, ChannelTokenHeader: "shopfront-token"},
			&stubChannels{ch: ch}, sessions, stubTokens{},
		),
		SpanAttributes(),
	)
	router.POST("/shop-api", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return router
}

func attributesOf(span sdktrace.ReadOnlySpan) map[attribute.Key]string {
	attrs := make(map[attribute.Key]string)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	return attrs
}

func TestTracing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("disabled passes through", func(t *testing.T) {
		router := gin.New()
		router.Use(Tracing(TracingConfig{}))
		var recording bool
		router.GET("/", func(c *gin.Context) {
			recording = trace.SpanFromContext(c.Request.Context()).IsRecording()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, recording)
	})

	t.Run("tags the server span with the request context", func(t *testing.T) {
		tp, recorder := newTestTracer(t)
		sessions := &stubSessions{sessions: map[string]*identity.CachedSession{
			"s1": {Token: "s1", User: &identity.CachedSessionUser{ID: 2}},
		}}
		router := newTracedRouter(t, tp, sessions)

		req := httptest.NewRequest(http.MethodPost, "/shop-api", nil)
		req.Header.Set("Authorization", "Bearer bearer-s1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
		attrs := attributesOf(spans[0])
		assert.Equal(t, "shop", attrs["shopfront.api"])
		assert.Equal(t, channel.DefaultChannelCode, attrs["shopfront.channel"])
		assert.Equal(t, "2", attrs["shopfront.user_id"])
		assert.Equal(t, w.Header().Get(RequestIDHeader), attrs["request_id"])
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("continues a propagated trace", func(t *testing.T) {
		tp, recorder := newTestTracer(t)
		router := newTracedRouter(t, tp, &stubSessions{})

		req := httptest.NewRequest(http.MethodPost, "/shop-api", nil)
		req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
		router.ServeHTTP(httptest.NewRecorder(), req)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	})

	t.Run("marks error responses", func(t *testing.T) {
		tp, recorder := newTestTracer(t)
		router := newTracedRouter(t, tp, &stubSessions{})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/broken", nil))

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "500", attributesOf(spans[0])["http.status_code"])
	})
}
