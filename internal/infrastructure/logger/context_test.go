package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestContextValues(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithChannel(ctx, "__default_channel__")
	ctx = WithUserID(ctx, "2")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "__default_channel__", Channel(ctx))
	assert.Equal(t, "2", UserID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))

	L(ctx).Info("bare")

	ctx = WithRequestID(ctx, "req-9")
	ctx = WithUserID(ctx, "2")
	L(ctx).Info("enriched")

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Empty(t, logs[0].Context)

	fields := logs[1].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "2", fields["user_id"])
	_, hasChannel := fields["channel"]
	assert.False(t, hasChannel)
}
