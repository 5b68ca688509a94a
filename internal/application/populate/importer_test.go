package populate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopfront/backend/internal/infrastructure/csvimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productsHeader = "name,slug,description,assets,facets,optionGroups,optionValues,sku,price,taxCategory,stockOnHand,trackInventory,variantAssets,variantFacets\n"

func newImporterFixture(t *testing.T) (*Importer, *MockFacetRepository, *MockProductRepository, *channel.Channel) {
	t.Helper()
	facets := new(MockFacetRepository)
	products := new(MockProductRepository)
	categories := new(MockTaxCategoryRepository)

	standard := tax.Category{BaseEntity: shared.BaseEntity{ID: 1}, Name: "Standard Tax", IsDefault: true}
	zero := tax.Category{BaseEntity: shared.BaseEntity{ID: 2}, Name: "Zero Tax"}
	categories.On("FindAll", mock.Anything).Return([]tax.Category{standard, zero}, nil)
	facets.On("FindByCode", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	facets.On("Save", mock.Anything, mock.Anything).Return(nil)
	products.On("Save", mock.Anything, mock.Anything).Return(nil)

	ch := &channel.Channel{BaseEntity: shared.BaseEntity{ID: 1}, CurrencyCode: "USD"}
	return NewImporter(facets, products, categories, zap.NewNop()), facets, products, ch
}

func TestImporter_ImportProducts(t *testing.T) {
	im, facets, products, ch := newImporterFixture(t)

	csv := productsHeader +
		`Spiky Cactus,spiky-cactus,A spiky cactus,,category:plants,,,SC-1,15.50,standard,100,false,,` + "\n" +
		`Orchid,,An orchid,,category:plants|colour:white,size,small,OR-S,65,standard,0,false,,` + "\n" +
		`,,,,,,large,OR-L,80,zero,0,true,,colour:pink` + "\n"

	result, err := im.ImportProducts(context.Background(), ch, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Products)
	assert.Equal(t, 3, result.Variants)
	assert.Empty(t, result.Errors)

	require.Len(t, products.saved, 2)
	cactus := products.saved[0]
	assert.Equal(t, "spiky-cactus", cactus.Slug)
	require.Len(t, cactus.FacetValues, 1)
	assert.Equal(t, "plants", cactus.FacetValues[0].Name)
	assert.False(t, cactus.FacetValues[0].ID.IsZero())

	require.Len(t, cactus.Variants, 1)
	v := cactus.Variants[0]
	assert.Equal(t, "Spiky Cactus", v.Name)
	assert.Equal(t, shared.ID(1), v.TaxCategoryID)
	assert.Equal(t, 100, v.StockOnHand)
	price, ok := v.ChannelPrice(ch.ID)
	require.True(t, ok)
	assert.Equal(t, int64(1550), price.Price)
	assert.Equal(t, "USD", price.CurrencyCode)

	orchid := products.saved[1]
	assert.Equal(t, "orchid", orchid.Slug)
	assert.Len(t, orchid.FacetValues, 2)
	require.Len(t, orchid.Variants, 2)
	assert.Equal(t, "Orchid small", orchid.Variants[0].Name)
	assert.Equal(t, "Orchid large", orchid.Variants[1].Name)
	assert.Equal(t, shared.ID(2), orchid.Variants[1].TaxCategoryID)
	assert.True(t, orchid.Variants[1].TrackInventory)
	require.Len(t, orchid.Variants[1].FacetValues, 1)
	assert.Equal(t, "pink", orchid.Variants[1].FacetValues[0].Name)

	// "category" is created once, its "plants" value is reused
	facets.AssertNumberOfCalls(t, "FindByCode", 2)
}

func TestImporter_ImportProducts_RowErrors(t *testing.T) {
	im, _, products, ch := newImporterFixture(t)

	csv := productsHeader +
		`,,,,,,,ORPHAN,1,standard,0,false,,` + "\n" +
		`Broken,,,,,,,BR-1,abc,unknown,x,false,,` + "\n" +
		`Fine,,,,,,,FI-1,2,,1,false,,` + "\n"

	result, err := im.ImportProducts(context.Background(), ch, strings.NewReader(csv))
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)

	assert.Equal(t, 1, result.Products)
	require.Len(t, products.saved, 1)
	assert.Equal(t, "Fine", products.saved[0].Name)
	// empty tax category falls back to the default category
	assert.Equal(t, shared.ID(1), products.saved[0].Variants[0].TaxCategoryID)

	codes := make(map[string]int)
	for _, e := range result.Errors {
		codes[e.Code]++
	}
	assert.Equal(t, 1, codes[csvimport.ErrCodeRequiredField])
	assert.Equal(t, 2, codes[csvimport.ErrCodeInvalidFormat])
	assert.Equal(t, 1, codes[csvimport.ErrCodeReferenceNotFound])
}

func TestImporter_ImportProducts_MissingColumns(t *testing.T) {
	im, _, _, ch := newImporterFixture(t)

	_, err := im.ImportProducts(context.Background(), ch, strings.NewReader("name,sku\nFern,F-1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
	assert.Contains(t, err.Error(), "taxCategory")
}

func TestImporter_ImportProducts_BadFacet(t *testing.T) {
	im, _, products, ch := newImporterFixture(t)

	csv := productsHeader + `Fern,,,,plants,,,F-1,3,standard,0,false,,` + "\n"
	result, err := im.ImportProducts(context.Background(), ch, strings.NewReader(csv))
	require.Error(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ColumnFacets, result.Errors[0].Column)
	assert.Empty(t, products.saved)
}

func TestParseMajorUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"15.50", 1550, false},
		{"65", 6500, false},
		{"0.005", 1, false},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMajorUnits(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImporter_FacetCache(t *testing.T) {
	im, facets, _, _ := newImporterFixture(t)
	ctx := context.Background()

	first, err := im.resolveFacetValues(ctx, "category:plants")
	require.NoError(t, err)
	second, err := im.resolveFacetValues(ctx, "Category:Plants")
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	facets.AssertNumberOfCalls(t, "FindByCode", 1)

}
