package populate

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPopulator_Populate_AlreadyPopulated(t *testing.T) {
	channels := new(MockChannelRepository)
	channels.On("FindByCode", mock.Anything, channel.DefaultChannelCode).
		Return(&channel.Channel{Code: channel.DefaultChannelCode}, nil)

	p := NewPopulator(Repositories{Channels: channels}, Config{ChannelToken: "token"}, zap.NewNop())
	data, err := ParseInitialData([]byte(sampleInitialData))
	require.NoError(t, err)

	_, err = p.Populate(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	channels.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPopulator_PopulateCollections(t *testing.T) {
	facets := new(MockFacetRepository)
	collections := new(MockCollectionRepository)

	category := catalog.Facet{BaseEntity: shared.BaseEntity{ID: 1}, Code: "category", Name: "category"}
	category.Values = []catalog.FacetValue{
		{BaseEntity: shared.BaseEntity{ID: 7}, FacetID: 1, Code: "plants", Name: "plants"},
	}
	facets.On("FindAll", mock.Anything).Return([]catalog.Facet{category}, nil)

	var saved []*catalog.Collection
	collections.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*catalog.Collection)) }).
		Return(nil)

	p := NewPopulator(Repositories{Facets: facets, Collections: collections}, Config{}, zap.NewNop())
	defs := []CollectionDefinition{
		{
			Name: "Plants",
			Filters: []catalog.ConfigurableOperation{{
				Code: catalog.FacetValueFilterCode,
				Args: map[string]any{"facetValueNames": []any{"plants"}, "containsAny": false},
			}},
		},
		{
			Name: "Electronics",
			Slug: "All Electronics",
			Filters: []catalog.ConfigurableOperation{{
				Code: catalog.FacetValueFilterCode,
				Args: map[string]any{"facetValueNames": []any{"electronics"}},
			}},
		},
	}
	require.NoError(t, p.PopulateCollections(context.Background(), defs))
	require.Len(t, saved, 2)

	plants := saved[0]
	assert.Equal(t, "plants", plants.Slug)
	assert.Equal(t, []string{"7"}, plants.Filters[0].Args["facetValueIds"])
	assert.Equal(t, []any{"plants"}, plants.Filters[0].Args["facetValueNames"])

	variant := &catalog.ProductVariant{FacetValues: category.Values}
	assert.True(t, plants.Matches(variant))

	electronics := saved[1]
	assert.Equal(t, "all-electronics", electronics.Slug)
	assert.Equal(t, 1, electronics.Position)
	_, resolved := electronics.Filters[0].Args["facetValueIds"]
	assert.False(t, resolved)
}

func TestPopulator_PopulateCollections_UnknownFilter(t *testing.T) {
	facets := new(MockFacetRepository)
	facets.On("FindAll", mock.Anything).Return([]catalog.Facet{}, nil)

	p := NewPopulator(Repositories{Facets: facets, Collections: new(MockCollectionRepository)}, Config{}, zap.NewNop())
	err := p.PopulateCollections(context.Background(), []CollectionDefinition{
		{Name: "Odd", Filters: []catalog.ConfigurableOperation{{Code: "price-filter"}}},
	})
	assert.Error(t, err)
}
