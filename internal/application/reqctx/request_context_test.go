package reqctx

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultChannel(t *testing.T) *channel.Channel {
	t.Helper()
	ch, err := channel.NewChannel(channel.DefaultChannelCode, "default-token", "en", "usd")
	require.NoError(t, err)
	ch.ID = 1
	return ch
}

func TestNew_SyntheticShopContext(t *testing.T) {
	ch := defaultChannel(t)
	rc := New(Options{
		Channel:               ch,
		APIType:               APITypeShop,
		IsAuthorized:          true,
		AuthorizedAsOwnerOnly: true,
		Session: &identity.CachedSession{
			ID:              1,
			ActiveOrderID:   shared.IDPtr(1),
			ActiveChannelID: shared.IDPtr(1),
			User:            &identity.CachedSessionUser{ID: 2},
		},
	})

	assert.Equal(t, shared.ID(1), rc.ChannelID())
	assert.Equal(t, APITypeShop, rc.APIType())
	assert.True(t, rc.IsAuthorized())
	assert.True(t, rc.AuthorizedAsOwnerOnly())
	assert.Equal(t, shared.ID(2), rc.ActiveUserID())
	assert.Equal(t, "en", rc.LanguageCode())
}

func TestNew_Defaults(t *testing.T) {
	rc := New(Options{})
	assert.Equal(t, APITypeAdmin, rc.APIType())
	assert.Zero(t, rc.ChannelID())
	assert.Zero(t, rc.ActiveUserID())
	assert.Nil(t, rc.Session())
}

func TestWithSession_DoesNotMutateOriginal(t *testing.T) {
	rc := New(Options{Channel: defaultChannel(t), APIType: APITypeShop})
	derived := rc.WithSession(&identity.CachedSession{User: &identity.CachedSessionUser{ID: 5}})

	assert.Zero(t, rc.ActiveUserID())
	assert.Equal(t, shared.ID(5), derived.ActiveUserID())
	assert.Equal(t, rc.ChannelID(), derived.ChannelID())
}

func TestContextPropagation(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	rc := New(Options{Channel: defaultChannel(t)})
	got, ok := FromContext(WithContext(context.Background(), rc))
	require.True(t, ok)
	assert.Same(t, rc, got)
}
