package persistence

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements identity.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id shared.ID) (*identity.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the customer registered through a user
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID shared.ID) (*identity.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email address
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*identity.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).
		Where("email_address = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of customers
func (r *GormCustomerRepository) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[identity.Customer], error) {
	opts = opts.Normalize()
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.PaginatedList[identity.Customer]{}, err
	}

	sortField := ValidateSortField(opts.OrderBy, CustomerSortFields, "id")
	sortOrder := ValidateSortOrder(opts.OrderDir)

	var rows []models.CustomerModel
	err := query.Order(sortField + " " + sortOrder).
		Offset(opts.Skip).
		Limit(opts.Take).
		Find(&rows).Error
	if err != nil {
		return shared.PaginatedList[identity.Customer]{}, err
	}

	customers := make([]identity.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, *rows[i].ToDomain())
	}
	return shared.NewPaginatedList(customers, total), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *identity.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}
