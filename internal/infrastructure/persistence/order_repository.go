package persistence

import (
	"context"

	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", orderByID)
}

// FindByID finds an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id shared.ID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.withLines(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds an order with its lines by code
func (r *GormOrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.withLines(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActiveForCustomer returns the customer's most recently updated active order in a channel
func (r *GormOrderRepository) FindActiveForCustomer(ctx context.Context, customerID, channelID shared.ID) (*order.Order, error) {
	var model models.OrderModel
	err := r.withLines(ctx).
		Where("customer_id = ? AND channel_id = ? AND active = ?", customerID, channelID, true).
		Order("updated_at DESC").
		Order("id DESC").
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of orders with their lines
func (r *GormOrderRepository) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[order.Order], error) {
	opts = opts.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&total).Error; err != nil {
		return shared.PaginatedList[order.Order]{}, err
	}

	sortField := ValidateSortField(opts.OrderBy, OrderSortFields, "id")
	sortOrder := ValidateSortOrder(opts.OrderDir)

	var rows []models.OrderModel
	err := r.withLines(ctx).
		Order(sortField + " " + sortOrder).
		Offset(opts.Skip).
		Limit(opts.Take).
		Find(&rows).Error
	if err != nil {
		return shared.PaginatedList[order.Order]{}, err
	}

	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return shared.NewPaginatedList(orders, total), nil
}

// Save creates or updates the order and its lines. New lines get IDs;
// lines no longer on the order are deleted.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	var model models.OrderModel
	model.FromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}
		o.ID = model.ID

		keep := make([]shared.ID, 0, len(o.Lines))
		for i := range o.Lines {
			line := &o.Lines[i]
			lm := models.OrderLineModelFromDomain(o.ID, line)
			if err := tx.Omit(clause.Associations).Save(&lm).Error; err != nil {
				return err
			}
			line.ID = lm.ID
			line.OrderID = o.ID
			keep = append(keep, lm.ID)
		}

		stale := tx.Where("order_id = ?", o.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		return stale.Delete(&models.OrderLineModel{}).Error
	})
}
