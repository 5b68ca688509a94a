package persistence

import (
	"context"
	"time"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSessionRepository implements identity.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByToken finds a session by its token, invalidated or not
func (r *GormSessionRepository) FindByToken(ctx context.Context, token string) (*identity.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a session
func (r *GormSessionRepository) Save(ctx context.Context, s *identity.Session) error {
	var model models.SessionModel
	model.FromDomain(s)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	s.ID = model.ID
	return nil
}

// InvalidateByToken marks the session unusable
func (r *GormSessionRepository) InvalidateByToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("token = ?", token).
		Update("invalidated", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteStale hard-deletes sessions that expired before the cutoff, and
// invalidated sessions last touched before it.
func (r *GormSessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR (invalidated = ? AND updated_at < ?)", cutoff, true, cutoff).
		Delete(&models.SessionModel{})
	return result.RowsAffected, result.Error
}
