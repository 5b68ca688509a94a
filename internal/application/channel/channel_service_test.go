package channel

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockChannelRepository is a mock implementation of channel.Repository
type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) FindByID(ctx context.Context, id shared.ID) (*channel.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) FindByCode(ctx context.Context, code string) (*channel.Channel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) FindByToken(ctx context.Context, token string) (*channel.Channel, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) FindAll(ctx context.Context) ([]channel.Channel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) Save(ctx context.Context, c *channel.Channel) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func newDefaultChannel(t *testing.T) *channel.Channel {
	t.Helper()
	ch, err := channel.NewChannel(channel.DefaultChannelCode, "default-token", "en", "USD")
	require.NoError(t, err)
	ch.ID = 1
	return ch
}

func TestChannelService_GetDefaultChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the default channel", func(t *testing.T) {
		repo := new(MockChannelRepository)
		ch := newDefaultChannel(t)
		repo.On("FindByCode", ctx, channel.DefaultChannelCode).Return(ch, nil).Once()

		svc := NewChannelService(repo, zap.NewNop())
		first, err := svc.GetDefaultChannel(ctx)
		require.NoError(t, err)
		second, err := svc.GetDefaultChannel(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, shared.ID(1), first.ID)
		repo.AssertExpectations(t)
	})

	t.Run("missing default channel", func(t *testing.T) {
		repo := new(MockChannelRepository)
		repo.On("FindByCode", ctx, channel.DefaultChannelCode).Return(nil, shared.ErrNotFound)

		svc := NewChannelService(repo, zap.NewNop())
		_, err := svc.GetDefaultChannel(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Default channel not found")
	})

	t.Run("invalidate reloads", func(t *testing.T) {
		repo := new(MockChannelRepository)
		repo.On("FindByCode", ctx, channel.DefaultChannelCode).Return(newDefaultChannel(t), nil).Twice()

		svc := NewChannelService(repo, zap.NewNop())
		_, err := svc.GetDefaultChannel(ctx)
		require.NoError(t, err)
		svc.Invalidate()
		_, err = svc.GetDefaultChannel(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestChannelService_GetChannelFromToken(t *testing.T) {
	ctx := context.Background()
	ch := newDefaultChannel(t)

	repo := new(MockChannelRepository)
	repo.On("FindByCode", ctx, channel.DefaultChannelCode).Return(ch, nil)
	repo.On("FindByToken", ctx, "default-token").Return(ch, nil)
	repo.On("FindByToken", ctx, "nope").Return(nil, shared.ErrNotFound)

	svc := NewChannelService(repo, zap.NewNop())

	t.Run("empty token resolves to the default channel", func(t *testing.T) {
		got, err := svc.GetChannelFromToken(ctx, "")
		require.NoError(t, err)
		assert.Same(t, ch, got)
	})

	t.Run("known token", func(t *testing.T) {
		got, err := svc.GetChannelFromToken(ctx, "default-token")
		require.NoError(t, err)
		assert.Same(t, ch, got)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		got, err := svc.GetChannelFromToken(ctx, "nope")
		require.Error(t, err)
		assert.Nil(t, got)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CHANNEL_NOT_FOUND", domainErr.Code)
		assert.Contains(t, domainErr.Message, "nope")
	})
}
