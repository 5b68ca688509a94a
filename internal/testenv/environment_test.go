package testenv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	env := CreateTestEnvironment(t, TestConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	require.NoError(t, env.Server.Init(ctx, Options{
		InitialData:     plantsInitialData(),
		ProductsCSVPath: productsCSV,
		CustomerCount:   3,
	}))
	return env
}

func TestMergeConfig(t *testing.T) {
	base := TestConfig()
	merged, err := MergeConfig(base, &config.Config{
		Log:   config.LogConfig{Level: "debug"},
		Order: config.OrderConfig{MaxQuantityPerLine: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", merged.Log.Level)
	assert.Equal(t, 5, merged.Order.MaxQuantityPerLine)
	assert.Equal(t, base.Database.Type, merged.Database.Type)
	assert.Equal(t, "error", base.Log.Level, "base is not modified")
}

func TestSqliteInitializer(t *testing.T) {
	dir := t.TempDir()
	init := NewSqliteInitializer(dir)

	cfg, err := init.Init("TestSomething/sub case", config.DatabaseConfig{Type: "postgres", MaxOpenConns: 10})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, dir, filepath.Dir(cfg.Path))
	assert.Equal(t, 1, cfg.MaxOpenConns)

	require.NoError(t, os.WriteFile(cfg.Path, []byte("x"), 0o600))
	require.NoError(t, init.Destroy("TestSomething/sub case"))
	_, err = os.Stat(cfg.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, init.Destroy("TestSomething/sub case"), "destroying twice is fine")
}

func TestCreateTestEnvironment_UnknownDatabaseType(t *testing.T) {
	_, err := initializerFor("oracle")
	assert.Error(t, err)
}

func TestShopAPI_EndToEnd(t *testing.T) {
	env := startEnvironment(t)
	ctx := context.Background()
	shop := env.ShopClient

	t.Run("anonymous add item starts a session", func(t *testing.T) {
		require.NoError(t, shop.AsAnonymousUser(ctx))
		var data struct {
			AddItemToOrder updateOrderItemsResult `json:"addItemToOrder"`
		}
		err := shop.Query(ctx, addItemToOrder, map[string]any{"productVariantId": "9", "quantity": 2}, &data)
		require.NoError(t, err)
		assert.Equal(t, "Order", data.AddItemToOrder.Typename)
		assert.Len(t, data.AddItemToOrder.Code, 16)
		assert.NotEmpty(t, shop.AuthToken())

		var active struct {
			ActiveOrder *struct {
				Code          string `json:"code"`
				TotalQuantity int    `json:"totalQuantity"`
				Lines         []struct {
					Quantity       int `json:"quantity"`
					ProductVariant struct {
						ID           string `json:"id"`
						PriceWithTax int    `json:"priceWithTax"`
					} `json:"productVariant"`
				} `json:"lines"`
			} `json:"activeOrder"`
		}
		err = shop.Query(ctx, `{ activeOrder { code totalQuantity lines { quantity productVariant { id priceWithTax } } } }`, nil, &active)
		require.NoError(t, err)
		require.NotNil(t, active.ActiveOrder)
		assert.Equal(t, data.AddItemToOrder.Code, active.ActiveOrder.Code)
		assert.Equal(t, 2, active.ActiveOrder.TotalQuantity)
		require.Len(t, active.ActiveOrder.Lines, 1)
		assert.Equal(t, "9", active.ActiveOrder.Lines[0].ProductVariant.ID)
		assert.Greater(t, active.ActiveOrder.Lines[0].ProductVariant.PriceWithTax, 0)
	})

	t.Run("negative quantity is an error result", func(t *testing.T) {
		var data struct {
			AddItemToOrder updateOrderItemsResult `json:"addItemToOrder"`
		}
		err := shop.Query(ctx, addItemToOrder, map[string]any{"productVariantId": "1", "quantity": -1}, &data)
		require.NoError(t, err)
		assert.Equal(t, "NEGATIVE_QUANTITY_ERROR", data.AddItemToOrder.ErrorCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		result, err := shop.AsUserWithCredentials(ctx, "hayden.zieme12@hotmail.com", "nope")
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "INVALID_CREDENTIALS_ERROR", result.ErrorCode)
	})

	t.Run("login and me", func(t *testing.T) {
		result, err := shop.AsUserWithCredentials(ctx, "hayden.zieme12@hotmail.com", CustomerPassword)
		require.NoError(t, err)
		assert.Equal(t, "2", result.ID)

		var me struct {
			Me *struct {
				Identifier string `json:"identifier"`
			} `json:"me"`
		}
		require.NoError(t, shop.Query(ctx, `{ me { identifier } }`, nil, &me))
		require.NotNil(t, me.Me)
		assert.Equal(t, "hayden.zieme12@hotmail.com", me.Me.Identifier)
	})

	t.Run("plants collection", func(t *testing.T) {
		var data struct {
			Collection *struct {
				Name            string `json:"name"`
				ProductVariants []struct {
					SKU string `json:"sku"`
				} `json:"productVariants"`
			} `json:"collection"`
		}
		require.NoError(t, shop.Query(ctx, `{ collection(slug: "plants") { name productVariants { sku } } }`, nil, &data))
		require.NotNil(t, data.Collection)
		assert.Equal(t, "Plants", data.Collection.Name)
		skus := make([]string, 0, len(data.Collection.ProductVariants))
		for _, v := range data.Collection.ProductVariants {
			skus = append(skus, v.SKU)
		}
		assert.ElementsMatch(t, []string{"SC011001", "ROR00221", "B01MXFLUSV"}, skus)
	})

	t.Run("logout clears the token", func(t *testing.T) {
		require.NoError(t, shop.AsAnonymousUser(ctx))
		assert.Empty(t, shop.AuthToken())

		var me struct {
			Me *struct{} `json:"me"`
		}
		require.NoError(t, shop.Query(ctx, `{ me { identifier } }`, nil, &me))
		assert.Nil(t, me.Me)
	})

	t.Run("unknown channel token", func(t *testing.T) {
		shop.SetChannelToken("does-not-exist")
		defer shop.SetChannelToken(DefaultChannelToken)

		err := shop.Query(ctx, `{ activeChannel { code } }`, nil, nil)
		var respErr *ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, 400, respErr.Status)
	})
}

func TestAdminAPI_EndToEnd(t *testing.T) {
	env := startEnvironment(t)
	ctx := context.Background()
	admin := env.AdminClient

	t.Run("anonymous access is rejected", func(t *testing.T) {
		err := admin.Query(ctx, `{ countries { code } }`, nil, nil)
		var respErr *ResponseError
		require.ErrorAs(t, err, &respErr)
	})

	t.Run("customers cannot log in", func(t *testing.T) {
		_, err := admin.AsUserWithCredentials(ctx, "hayden.zieme12@hotmail.com", CustomerPassword)
		assert.Error(t, err)
	})

	require.NoError(t, admin.AsSuperAdmin(ctx))

	t.Run("reference data", func(t *testing.T) {
		var data struct {
			Countries []struct {
				Code string `json:"code"`
			} `json:"countries"`
			TaxRates []struct {
				Name string `json:"name"`
			} `json:"taxRates"`
			ShippingMethods []struct {
				Name string `json:"name"`
			} `json:"shippingMethods"`
			PaymentMethods []struct {
				Name string `json:"name"`
			} `json:"paymentMethods"`
		}
		query := `{ countries { code } taxRates { name } shippingMethods { name } paymentMethods { name } }`
		require.NoError(t, admin.Query(ctx, query, nil, &data))
		assert.Len(t, data.Countries, 8)
		assert.Len(t, data.TaxRates, 3*5)
		assert.Len(t, data.ShippingMethods, 2)
		assert.Empty(t, data.PaymentMethods)
	})

	t.Run("customers", func(t *testing.T) {
		var data struct {
			Customers struct {
				TotalItems int `json:"totalItems"`
			} `json:"customers"`
		}
		require.NoError(t, admin.Query(ctx, `{ customers { totalItems } }`, nil, &data))
		assert.Equal(t, 3, data.Customers.TotalItems)
	})
}
