package persistence

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaxCategoryRepository implements tax.CategoryRepository using GORM
type GormTaxCategoryRepository struct {
	db *gorm.DB
}

// NewGormTaxCategoryRepository creates a new GormTaxCategoryRepository
func NewGormTaxCategoryRepository(db *gorm.DB) *GormTaxCategoryRepository {
	return &GormTaxCategoryRepository{db: db}
}

// FindByID finds a tax category by its ID
func (r *GormTaxCategoryRepository) FindByID(ctx context.Context, id shared.ID) (*tax.Category, error) {
	var model models.TaxCategoryModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every tax category ordered by ID
func (r *GormTaxCategoryRepository) FindAll(ctx context.Context) ([]tax.Category, error) {
	var rows []models.TaxCategoryModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]tax.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, *rows[i].ToDomain())
	}
	return categories, nil
}

// FindDefault returns the category new variants fall back to
func (r *GormTaxCategoryRepository) FindDefault(ctx context.Context) (*tax.Category, error) {
	var model models.TaxCategoryModel
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).Order("id").First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tax category
func (r *GormTaxCategoryRepository) Save(ctx context.Context, c *tax.Category) error {
	var model models.TaxCategoryModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}

// GormTaxRateRepository implements tax.RateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindAll returns every tax rate ordered by ID
func (r *GormTaxRateRepository) FindAll(ctx context.Context) ([]tax.Rate, error) {
	var rows []models.TaxRateModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	rates := make([]tax.Rate, 0, len(rows))
	for i := range rows {
		rates = append(rates, *rows[i].ToDomain())
	}
	return rates, nil
}

// FindApplicable returns the enabled rate for a zone and category
func (r *GormTaxRateRepository) FindApplicable(ctx context.Context, zoneID, categoryID shared.ID) (*tax.Rate, error) {
	var model models.TaxRateModel
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND category_id = ? AND enabled = ?", zoneID, categoryID, true).
		Order("id").
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *tax.Rate) error {
	var model models.TaxRateModel
	model.FromDomain(rate)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	rate.ID = model.ID
	return nil
}
