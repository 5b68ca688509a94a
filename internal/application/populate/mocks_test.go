package populate

import (
	"context"

	appidentity "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/stretchr/testify/mock"
)

// MockFacetRepository is a mock implementation of catalog.FacetRepository
type MockFacetRepository struct {
	mock.Mock
	nextID shared.ID
}

func (m *MockFacetRepository) FindByCode(ctx context.Context, code string) (*catalog.Facet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Facet), args.Error(1)
}

func (m *MockFacetRepository) FindAll(ctx context.Context) ([]catalog.Facet, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Facet), args.Error(1)
}

// Save assigns IDs the way the database would
func (m *MockFacetRepository) Save(ctx context.Context, f *catalog.Facet) error {
	args := m.Called(ctx, f)
	if f.ID.IsZero() {
		m.nextID++
		f.ID = m.nextID
	}
	for i := range f.Values {
		f.Values[i].FacetID = f.ID
		if f.Values[i].ID.IsZero() {
			m.nextID++
			f.Values[i].ID = m.nextID
		}
	}
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
	saved []catalog.Product
}

func (m *MockProductRepository) FindByID(ctx context.Context, id shared.ID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	m.saved = append(m.saved, *p)
	return args.Error(0)
}

// MockTaxCategoryRepository is a mock implementation of tax.CategoryRepository
type MockTaxCategoryRepository struct {
	mock.Mock
}

func (m *MockTaxCategoryRepository) FindByID(ctx context.Context, id shared.ID) (*tax.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Category), args.Error(1)
}

func (m *MockTaxCategoryRepository) FindAll(ctx context.Context) ([]tax.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]tax.Category), args.Error(1)
}

func (m *MockTaxCategoryRepository) FindDefault(ctx context.Context) (*tax.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Category), args.Error(1)
}

func (m *MockTaxCategoryRepository) Save(ctx context.Context, c *tax.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockChannelRepository is a mock implementation of channel.Repository
type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) FindByID(ctx context.Context, id shared.ID) (*channel.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) FindByCode(ctx context.Context, code string) (*channel.Channel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) FindByToken(ctx context.Context, token string) (*channel.Channel, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) FindAll(ctx context.Context) ([]channel.Channel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]channel.Channel), args.Error(1)
}

func (m *MockChannelRepository) Save(ctx context.Context, c *channel.Channel) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockCollectionRepository is a mock implementation of catalog.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Collection, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindAll(ctx context.Context) ([]catalog.Collection, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Save(ctx context.Context, c *catalog.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockCustomerRegistrar is a mock implementation of CustomerRegistrar
type MockCustomerRegistrar struct {
	mock.Mock
}

func (m *MockCustomerRegistrar) Register(ctx context.Context, input appidentity.RegisterCustomerInput) (*identity.Customer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}
