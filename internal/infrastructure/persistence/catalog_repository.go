package persistence

import (
	"context"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// GormFacetRepository implements catalog.FacetRepository using GORM
type GormFacetRepository struct {
	db *gorm.DB
}

// NewGormFacetRepository creates a new GormFacetRepository
func NewGormFacetRepository(db *gorm.DB) *GormFacetRepository {
	return &GormFacetRepository{db: db}
}

// FindByCode finds a facet with its values
func (r *GormFacetRepository) FindByCode(ctx context.Context, code string) (*catalog.Facet, error) {
	var model models.FacetModel
	if err := r.db.WithContext(ctx).Preload("Values", orderByID).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every facet with its values
func (r *GormFacetRepository) FindAll(ctx context.Context) ([]catalog.Facet, error) {
	var rows []models.FacetModel
	if err := r.db.WithContext(ctx).Preload("Values", orderByID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	facets := make([]catalog.Facet, 0, len(rows))
	for i := range rows {
		facets = append(facets, *rows[i].ToDomain())
	}
	return facets, nil
}

// Save creates or updates a facet and its values, assigning IDs to new values
func (r *GormFacetRepository) Save(ctx context.Context, f *catalog.Facet) error {
	var model models.FacetModel
	model.FromDomain(f)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}
		f.ID = model.ID
		for i := range f.Values {
			value := &f.Values[i]
			value.FacetID = f.ID
			vm := models.FacetValueModelFromDomain(*value)
			if err := tx.Save(&vm).Error; err != nil {
				return err
			}
			value.ID = vm.ID
		}
		return nil
	})
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withVariants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("FacetValues", orderByID).
		Preload("Variants", orderByID).
		Preload("Variants.ChannelPrices", orderByID).
		Preload("Variants.FacetValues", orderByID)
}

// FindByID finds a product with its variants
func (r *GormProductRepository) FindByID(ctx context.Context, id shared.ID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.withVariants(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a product with its variants by slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.withVariants(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a product with its variants. Facet values must
// already be persisted; each variant's channel prices are replaced.
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Model(&model).Association("FacetValues").Replace(model.FacetValues); err != nil {
			return err
		}
		p.ID = model.ID

		for i := range p.Variants {
			v := &p.Variants[i]
			v.ProductID = p.ID
			if err := saveVariant(tx, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveVariant(tx *gorm.DB, v *catalog.ProductVariant) error {
	var model models.ProductVariantModel
	model.FromDomain(v)
	if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
		return err
	}
	v.ID = model.ID
	if err := tx.Model(&model).Association("FacetValues").Replace(model.FacetValues); err != nil {
		return err
	}

	if err := tx.Where("variant_id = ?", model.ID).Delete(&models.ProductVariantPriceModel{}).Error; err != nil {
		return err
	}
	if len(model.ChannelPrices) == 0 {
		return nil
	}
	for i := range model.ChannelPrices {
		model.ChannelPrices[i].VariantID = model.ID
	}
	return tx.Create(&model.ChannelPrices).Error
}

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// preloadVariant adds the relations every loaded variant carries, so
// collection filters see the product's facet values too
func preloadVariant(db *gorm.DB) *gorm.DB {
	for _, r := range variantRelations {
		db = db.Preload(r, orderByID)
	}
	return db
}

// FindByID loads a variant with channel prices, facet values and its product
func (r *GormVariantRepository) FindByID(ctx context.Context, id shared.ID) (*catalog.ProductVariant, error) {
	var model models.ProductVariantModel
	err := preloadVariant(r.db.WithContext(ctx)).First(&model, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every variant with prices, facet values and its product, ordered by ID
func (r *GormVariantRepository) FindAll(ctx context.Context) ([]catalog.ProductVariant, error) {
	var rows []models.ProductVariantModel
	err := preloadVariant(r.db.WithContext(ctx)).Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	variants := make([]catalog.ProductVariant, 0, len(rows))
	for i := range rows {
		variants = append(variants, *rows[i].ToDomain())
	}
	return variants, nil
}

// UpdateStock sets the stock on hand of a variant
func (r *GormVariantRepository) UpdateStock(ctx context.Context, id shared.ID, stockOnHand int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariantModel{}).
		Where("id = ?", id).
		Update("stock_on_hand", stockOnHand)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCollectionRepository implements catalog.CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindBySlug finds a collection by slug
func (r *GormCollectionRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every collection ordered by position
func (r *GormCollectionRepository) FindAll(ctx context.Context) ([]catalog.Collection, error) {
	var rows []models.CollectionModel
	if err := r.db.WithContext(ctx).Order("position").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	collections := make([]catalog.Collection, 0, len(rows))
	for i := range rows {
		collections = append(collections, *rows[i].ToDomain())
	}
	return collections, nil
}

// Save creates or updates a collection
func (r *GormCollectionRepository) Save(ctx context.Context, c *catalog.Collection) error {
	var model models.CollectionModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}
