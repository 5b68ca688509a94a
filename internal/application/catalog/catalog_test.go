package catalog

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	return m.Called(ctx, c).Error(0)
}

var standardRate = tax.Rate{Name: "Standard Tax Europe", Value: decimal.NewFromInt(20), Enabled: true}

func testContext(t *testing.T, pricesIncludeTax bool) *reqctx.RequestContext {
	t.Helper()
	ch, err := channel.NewChannel(channel.DefaultChannelCode, "tok", "en", "USD")
	require.NoError(t, err)
	ch.ID = 1
	ch.PricesIncludeTax = pricesIncludeTax
	ch.SetDefaultZones(1)
	return reqctx.New(reqctx.Options{Channel: ch, APIType: reqctx.APITypeShop})
}

func testVariant(t *testing.T, id shared.ID, price int64) *catalog.ProductVariant {
	t.Helper()
	v, err := catalog.NewProductVariant(1, "Variant", "SKU-"+id.String(), 1)
	require.NoError(t, err)
	v.ID = id
	require.NoError(t, v.SetChannelPrice(1, price, "USD"))
	return v
}

func standardTaxes() *MockTaxResolver {
	taxes := new(MockTaxResolver)
	taxes.On("ActiveTaxZone", mock.Anything, mock.Anything, mock.Anything).Return(shared.ID(1), nil)
	taxes.On("ApplicableRate", mock.Anything, shared.ID(1), shared.ID(1)).Return(standardRate, nil)
	return taxes
}

func TestPriceApplicator_ApplyChannelPriceAndTax(t *testing.T) {
	ctx := context.Background()

	t.Run("net prices", func(t *testing.T) {
		applicator := NewPriceApplicator(standardTaxes())
		v := testVariant(t, 1, 12999)

		require.NoError(t, applicator.ApplyChannelPriceAndTax(ctx, testContext(t, false), v, nil))
		assert.True(t, v.PricesApplied)
		assert.Equal(t, int64(12999), v.Price)
		assert.Equal(t, int64(15599), v.PriceWithTax)
		assert.Equal(t, "USD", v.CurrencyCode)
		assert.Equal(t, "Standard Tax Europe", v.TaxRateName)
		assert.False(t, v.ListPriceIncludesTax)
	})

	t.Run("gross prices", func(t *testing.T) {
		applicator := NewPriceApplicator(standardTaxes())
		v := testVariant(t, 1, 1200)

		require.NoError(t, applicator.ApplyChannelPriceAndTax(ctx, testContext(t, true), v, nil))
		assert.Equal(t, int64(1000), v.Price)
		assert.Equal(t, int64(1200), v.PriceWithTax)
		assert.True(t, v.ListPriceIncludesTax)
	})

	t.Run("idempotent", func(t *testing.T) {
		applicator := NewPriceApplicator(standardTaxes())
		rc := testContext(t, false)
		v := testVariant(t, 1, 1995)

		require.NoError(t, applicator.ApplyChannelPriceAndTax(ctx, rc, v, nil))
		first := *v
		require.NoError(t, applicator.ApplyChannelPriceAndTax(ctx, rc, v, nil))
		assert.Equal(t, first.Price, v.Price)
		assert.Equal(t, first.PriceWithTax, v.PriceWithTax)
	})

	t.Run("missing channel price", func(t *testing.T) {
		applicator := NewPriceApplicator(standardTaxes())
		v, err := catalog.NewProductVariant(1, "Unpriced", "SKU-X", 1)
		require.NoError(t, err)

		err = applicator.ApplyChannelPriceAndTax(ctx, testContext(t, false), v, nil)
		require.Error(t, err)
		assert.False(t, v.PricesApplied)
	})
}

func TestProductVariantService_FindOne(t *testing.T) {
	ctx := context.Background()
	variants := new(MockVariantRepository)
	enabled := testVariant(t, 1, 1000)
	disabled := testVariant(t, 2, 1000)
	disabled.Enabled = false
	variants.On("FindByID", ctx, shared.ID(1)).Return(enabled, nil)
	variants.On("FindByID", ctx, shared.ID(2)).Return(disabled, nil)
	variants.On("FindByID", ctx, shared.ID(3)).Return(nil, shared.ErrNotFound)

	svc := NewProductVariantService(variants, nil, NewPriceApplicator(standardTaxes()))
	rc := testContext(t, false)

	v, err := svc.FindOne(ctx, rc, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), v.PriceWithTax)

	_, err = svc.FindOne(ctx, rc, 2)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.FindOne(ctx, rc, 3)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCollectionService_ProductVariants(t *testing.T) {
	ctx := context.Background()

	plants := catalog.FacetValue{BaseEntity: shared.BaseEntity{ID: 1}, Code: "plants", Name: "plants"}
	plant := testVariant(t, 1, 1000)
	plant.FacetValues = []catalog.FacetValue{plants}
	pot := testVariant(t, 2, 500)

	collection, err := catalog.NewCollection("Plants", []catalog.ConfigurableOperation{{
		Code: catalog.FacetValueFilterCode,
		Args: map[string]any{"facetValueNames": []string{"plants"}, "containsAny": false},
	}})
	require.NoError(t, err)

	collections := new(MockCollectionRepository)
	collections.On("FindBySlug", ctx, "plants").Return(collection, nil)
	variants := new(MockVariantRepository)
	variants.On("FindAll", ctx).Return([]catalog.ProductVariant{*plant, *pot}, nil)

	svc := NewCollectionService(collections, variants, NewPriceApplicator(standardTaxes()))
	got, err := svc.ProductVariants(ctx, testContext(t, false), "plants")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, shared.ID(1), got[0].ID)
	assert.True(t, got[0].PricesApplied)
}
