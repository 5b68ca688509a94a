package persistence

import (
	"context"
	"reflect"
	"testing"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreloadPaths(t *testing.T) {
	t.Run("expands order line variants", func(t *testing.T) {
		paths, err := preloadPaths(reflect.TypeOf(models.OrderModel{}), []string{"lines.productVariant"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Lines",
			"Lines.ProductVariant",
			"Lines.ProductVariant.ChannelPrices",
			"Lines.ProductVariant.FacetValues",
			"Lines.ProductVariant.Product",
			"Lines.ProductVariant.Product.FacetValues",
		}, paths)
	})

	t.Run("variant root always gets pricing relations", func(t *testing.T) {
		paths, err := preloadPaths(reflect.TypeOf(models.ProductVariantModel{}), []string{"product"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ChannelPrices", "FacetValues", "Product", "Product.FacetValues"}, paths)
	})

	t.Run("rejects unknown relations", func(t *testing.T) {
		_, err := preloadPaths(reflect.TypeOf(models.OrderModel{}), []string{"lines.warehouse"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_RELATION", domainErr.Code)
	})

	t.Run("rejects scalar fields", func(t *testing.T) {
		_, err := preloadPaths(reflect.TypeOf(models.OrderModel{}), []string{"code"})
		assert.Error(t, err)
	})
}

func TestGormEntityLoader_Load(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	fx := seedCatalog(t, db)
	loader := NewGormEntityLoader(db.DB)

	o, err := order.NewOrder(fx.channel.ID, "USD", false)
	require.NoError(t, err)
	for _, v := range fx.product.Variants {
		_, er := o.AddItem(v.ID, 1, order.Limits{})
		require.Nil(t, er)
	}
	require.NoError(t, NewGormOrderRepository(db.DB).Save(ctx, o))

	t.Run("loads order lines with variants", func(t *testing.T) {
		missing := &order.Order{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
		missing.ID = 999
		loaded, err := loader.Load(ctx, missing, nil)
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, loaded)

		loaded, err = loader.Load(ctx, o, []string{"lines.productVariant"})
		require.NoError(t, err)
		got, ok := loaded.(*order.Order)
		require.True(t, ok)
		require.Len(t, got.Lines, 3)
		for i, l := range got.Lines {
			require.NotNil(t, l.ProductVariant)
			assert.Equal(t, fx.product.Variants[i].SKU, l.ProductVariant.SKU)
			assert.Len(t, l.ProductVariant.ChannelPrices, 1)
			require.NotNil(t, l.ProductVariant.Product)
		}
	})

	t.Run("loads a variant", func(t *testing.T) {
		loaded, err := loader.Load(ctx, &fx.product.Variants[0], nil)
		require.NoError(t, err)
		v := loaded.(*catalog.ProductVariant)
		assert.NotNil(t, v.Product)
		assert.Len(t, v.ChannelPrices, 1)
	})

	t.Run("rejects unsupported targets", func(t *testing.T) {
		_, err := loader.Load(ctx, &catalog.Collection{}, nil)
		assert.Error(t, err)
	})
}
