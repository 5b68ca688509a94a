package persistence

import (
	"context"

	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShippingMethodRepository implements shipping.Repository using GORM
type GormShippingMethodRepository struct {
	db *gorm.DB
}

// NewGormShippingMethodRepository creates a new GormShippingMethodRepository
func NewGormShippingMethodRepository(db *gorm.DB) *GormShippingMethodRepository {
	return &GormShippingMethodRepository{db: db}
}

// FindByID finds a shipping method by its ID
func (r *GormShippingMethodRepository) FindByID(ctx context.Context, id shared.ID) (*shipping.Method, error) {
	var model models.ShippingMethodModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every shipping method ordered by ID
func (r *GormShippingMethodRepository) FindAll(ctx context.Context) ([]shipping.Method, error) {
	var rows []models.ShippingMethodModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	methods := make([]shipping.Method, 0, len(rows))
	for i := range rows {
		methods = append(methods, *rows[i].ToDomain())
	}
	return methods, nil
}

// Save creates or updates a shipping method
func (r *GormShippingMethodRepository) Save(ctx context.Context, m *shipping.Method) error {
	var model models.ShippingMethodModel
	model.FromDomain(m)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	m.ID = model.ID
	return nil
}

// GormPaymentMethodRepository implements payment.Repository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindAll returns every payment method ordered by ID
func (r *GormPaymentMethodRepository) FindAll(ctx context.Context) ([]payment.Method, error) {
	var rows []models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	methods := make([]payment.Method, 0, len(rows))
	for i := range rows {
		methods = append(methods, *rows[i].ToDomain())
	}
	return methods, nil
}

// Save creates or updates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, m *payment.Method) error {
	var model models.PaymentMethodModel
	model.FromDomain(m)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	m.ID = model.ID
	return nil
}
