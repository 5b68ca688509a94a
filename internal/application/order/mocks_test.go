package order

import (
	"context"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id shared.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindActiveForCustomer(ctx context.Context, customerID, channelID shared.ID) (*order.Order, error) {
	args := m.Called(ctx, customerID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[order.Order], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(shared.PaginatedList[order.Order]), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id shared.ID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindAll(ctx context.Context) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) UpdateStock(ctx context.Context, id shared.ID, stockOnHand int) error {
	return m.Called(ctx, id, stockOnHand).Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id shared.ID) (*identity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID shared.ID) (*identity.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*identity.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[identity.Customer], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(shared.PaginatedList[identity.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *identity.Customer) error {
	return m.Called(ctx, c).Error(0)
}

type MockShippingRepository struct {
	mock.Mock
}

func (m *MockShippingRepository) FindByID(ctx context.Context, id shared.ID) (*shipping.Method, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Method), args.Error(1)
}

func (m *MockShippingRepository) FindAll(ctx context.Context) ([]shipping.Method, error) {
	args := m.Called(ctx)
	return args.Get(0).([]shipping.Method), args.Error(1)
}

func (m *MockShippingRepository) Save(ctx context.Context, sm *shipping.Method) error {
	return m.Called(ctx, sm).Error(0)
}

type MockTaxResolver struct {
	mock.Mock
}

func (m *MockTaxResolver) ActiveTaxZone(ctx context.Context, rc *reqctx.RequestContext, o *order.Order) (shared.ID, error) {
	args := m.Called(ctx, rc, o)
	return args.Get(0).(shared.ID), args.Error(1)
}

func (m *MockTaxResolver) ApplicableRate(ctx context.Context, zoneID, categoryID shared.ID) (tax.Rate, error) {
	args := m.Called(ctx, zoneID, categoryID)
	return args.Get(0).(tax.Rate), args.Error(1)
}

type MockSessionUpdater struct {
	mock.Mock
}

func (m *MockSessionUpdater) SetActiveOrder(ctx context.Context, cs *identity.CachedSession, orderID *shared.ID) (*identity.CachedSession, error) {
	args := m.Called(ctx, cs, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.CachedSession), args.Error(1)
}
