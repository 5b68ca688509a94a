// Package channel resolves the channel a request operates in.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ChannelService looks up channels, caching the default one
type ChannelService struct {
	repo   channel.Repository
	logger *zap.Logger

	mu             sync.RWMutex
	defaultChannel *channel.Channel
}

// NewChannelService creates a new ChannelService
func NewChannelService(repo channel.Repository, logger *zap.Logger) *ChannelService {
	return &ChannelService{repo: repo, logger: logger}
}

// GetDefaultChannel returns the default channel
func (s *ChannelService) GetDefaultChannel(ctx context.Context) (*channel.Channel, error) {
	s.mu.RLock()
	cached := s.defaultChannel
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	ch, err := s.repo.FindByCode(ctx, channel.DefaultChannelCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("DEFAULT_CHANNEL_NOT_FOUND", "Default channel not found")
		}
		return nil, err
	}

	s.mu.Lock()
	s.defaultChannel = ch
	s.mu.Unlock()
	return ch, nil
}

// GetChannelFromToken returns the channel for a channel token. An empty
// token resolves to the default channel; an unknown one is CHANNEL_NOT_FOUND.
func (s *ChannelService) GetChannelFromToken(ctx context.Context, token string) (*channel.Channel, error) {
	if token == "" {
		return s.GetDefaultChannel(ctx)
	}
	ch, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("Unknown channel token", zap.String("token", token))
			return nil, shared.NewDomainError("CHANNEL_NOT_FOUND",
				fmt.Sprintf("No channel with the token %q exists", token))
		}
		return nil, err
	}
	return ch, nil
}

// FindByID returns a channel by ID
func (s *ChannelService) FindByID(ctx context.Context, id shared.ID) (*channel.Channel, error) {
	return s.repo.FindByID(ctx, id)
}

// Invalidate drops the cached default channel, e.g. after its zones change
func (s *ChannelService) Invalidate() {
	s.mu.Lock()
	s.defaultChannel = nil
	s.mu.Unlock()
}
