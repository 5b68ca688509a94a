package testenv

import (
	"github.com/shopfront/backend/internal/application/populate"
	"github.com/shopfront/backend/internal/domain/catalog"
)

const productsCSV = "testdata/products.csv"

func plantsInitialData() *populate.InitialData {
	return &populate.InitialData{
		DefaultLanguage: "en",
		DefaultZone:     "Europe",
		TaxRates: []populate.TaxRateDefinition{
			{Name: "Standard Tax", Percentage: 20},
			{Name: "Reduced Tax", Percentage: 10},
			{Name: "Zero Tax", Percentage: 0},
		},
		ShippingMethods: []populate.ShippingMethodDefinition{
			{Name: "Standard Shipping", Price: 500},
			{Name: "Express Shipping", Price: 1000},
		},
		Countries: []populate.CountryDefinition{
			{Name: "Australia", Code: "AU", Zone: "Oceania"},
			{Name: "Austria", Code: "AT", Zone: "Europe"},
			{Name: "Canada", Code: "CA", Zone: "Americas"},
			{Name: "China", Code: "CN", Zone: "Asia"},
			{Name: "South Africa", Code: "ZA", Zone: "Africa"},
			{Name: "United Kingdom", Code: "GB", Zone: "Europe"},
			{Name: "United States of America", Code: "US", Zone: "Americas"},
			{Name: "Nederland", Code: "NL", Zone: "Europe"},
		},
		Collections: []populate.CollectionDefinition{
			{
				Name: "Plants",
				Filters: []catalog.ConfigurableOperation{
					{
						Code: "facet-value-filter",
						Args: map[string]any{"facetValueNames": []any{"plants"}, "containsAny": false},
					},
				},
			},
		},
		PaymentMethods: []populate.PaymentMethodDefinition{},
	}
}

const addItemToOrder = `
mutation AddItemToOrder($productVariantId: ID!, $quantity: Int!) {
  addItemToOrder(productVariantId: $productVariantId, quantity: $quantity) {
    __typename
    ... on Order { id code }
    ... on ErrorResult { errorCode message }
  }
}`

type updateOrderItemsResult struct {
	Typename  string `json:"__typename"`
	ID        string `json:"id"`
	Code      string `json:"code"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}
