package persistence

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user with roles
func (r *GormUserRepository) FindByID(ctx context.Context, id shared.ID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Preload("Roles", orderByID).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIdentifier finds a user by login identifier, case-insensitively
func (r *GormUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Preload("Roles", orderByID).
		Where("identifier = ?", strings.ToLower(strings.TrimSpace(identifier))).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a user and replaces its role assignments
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Model(&model).Association("Roles").Replace(model.Roles); err != nil {
			return err
		}
		user.ID = model.ID
		return nil
	})
}

// GormAdministratorRepository implements identity.AdministratorRepository using GORM
type GormAdministratorRepository struct {
	db *gorm.DB
}

// NewGormAdministratorRepository creates a new GormAdministratorRepository
func NewGormAdministratorRepository(db *gorm.DB) *GormAdministratorRepository {
	return &GormAdministratorRepository{db: db}
}

// FindByUserID finds the administrator for a user
func (r *GormAdministratorRepository) FindByUserID(ctx context.Context, userID shared.ID) (*identity.Administrator, error) {
	var model models.AdministratorModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an administrator
func (r *GormAdministratorRepository) Save(ctx context.Context, a *identity.Administrator) error {
	var model models.AdministratorModel
	model.FromDomain(a)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	a.ID = model.ID
	return nil
}
