package persistence

import (
	"context"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByCode finds a role by its code
func (r *GormRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every role ordered by ID
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	var rows []models.RoleModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]identity.Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, *rows[i].ToDomain())
	}
	return roles, nil
}

// Save creates or updates a role
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	var model models.RoleModel
	model.FromDomain(role)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	role.ID = model.ID
	return nil
}
