package persistence

import (
	"context"

	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormChannelRepository implements channel.Repository using GORM
type GormChannelRepository struct {
	db *gorm.DB
}

// NewGormChannelRepository creates a new GormChannelRepository
func NewGormChannelRepository(db *gorm.DB) *GormChannelRepository {
	return &GormChannelRepository{db: db}
}

// FindByID finds a channel by its ID
func (r *GormChannelRepository) FindByID(ctx context.Context, id shared.ID) (*channel.Channel, error) {
	var model models.ChannelModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a channel by its code
func (r *GormChannelRepository) FindByCode(ctx context.Context, code string) (*channel.Channel, error) {
	return r.findOne(ctx, "code = ?", code)
}

// FindByToken finds a channel by the token clients send to select it
func (r *GormChannelRepository) FindByToken(ctx context.Context, token string) (*channel.Channel, error) {
	return r.findOne(ctx, "token = ?", token)
}

func (r *GormChannelRepository) findOne(ctx context.Context, query string, arg any) (*channel.Channel, error) {
	var model models.ChannelModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every channel ordered by ID
func (r *GormChannelRepository) FindAll(ctx context.Context) ([]channel.Channel, error) {
	var rows []models.ChannelModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	channels := make([]channel.Channel, 0, len(rows))
	for i := range rows {
		channels = append(channels, *rows[i].ToDomain())
	}
	return channels, nil
}

// Save creates or updates a channel
func (r *GormChannelRepository) Save(ctx context.Context, c *channel.Channel) error {
	var model models.ChannelModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}
