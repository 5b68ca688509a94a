package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the server span middleware
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// Tracing starts a server span per request through otelgin, continuing
// any trace propagated in the request headers. Disabled configs install a
// pass-through handler.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithTracerProvider(provider),
		otelgin.WithPropagators(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)),
	)
}

// SpanAttributes tags the request span with the resolved API, channel,
// session user and request ID, and marks client and server errors on it.
// It must run after RequestContext.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := c.GetString(logger.GinRequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if rc, ok := reqctx.FromContext(c.Request.Context()); ok {
			span.SetAttributes(attribute.String("shopfront.api", string(rc.APIType())))
			if ch := rc.Channel(); ch != nil {
				span.SetAttributes(attribute.String("shopfront.channel", ch.Code))
			}
			if userID := rc.ActiveUserID(); !userID.IsZero() {
				span.SetAttributes(attribute.String("shopfront.user_id", userID.String()))
			}
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetAttributes(attribute.Int("http.status_code", status))
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
