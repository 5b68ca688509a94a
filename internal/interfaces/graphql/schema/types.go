package schema

import (
	"time"

	"github.com/graphql-go/graphql"
	appidentity "github.com/shopfront/backend/internal/application/identity"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/geo"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/tax"
)

// from adapts a typed field getter to a graphql resolver
func from[T any](fn func(T) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		src, ok := p.Source.(T)
		if !ok {
			return nil, nil
		}
		return fn(src), nil
	}
}

func field[T any](t graphql.Output, fn func(T) any) *graphql.Field {
	return &graphql.Field{Type: t, Resolve: from(fn)}
}

func nonNull(t graphql.Type) *graphql.NonNull {
	return graphql.NewNonNull(t)
}

func listOf(t graphql.Type) *graphql.NonNull {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func money(v int64) any {
	return int(v)
}

// types holds the object types shared by a schema. graphql-go types belong to
// one schema, so every schema builds its own set.
type types struct {
	svc *Services

	errorResult *graphql.Interface

	channel        *graphql.Object
	country        *graphql.Object
	zone           *graphql.Object
	taxCategory    *graphql.Object
	taxRate        *graphql.Object
	facetValue     *graphql.Object
	product        *graphql.Object
	variant        *graphql.Object
	collection     *graphql.Object
	orderLine      *graphql.Object
	order          *graphql.Object
	orderList      *graphql.Object
	shippingMethod *graphql.Object
	shippingQuote  *graphql.Object
	paymentMethod  *graphql.Object
	customer       *graphql.Object
	customerList   *graphql.Object
	currentUser    *graphql.Object
	success        *graphql.Object

	orderModificationError *graphql.Object
	orderLimitError        *graphql.Object
	negativeQuantityError  *graphql.Object
	insufficientStockError *graphql.Object
	invalidCredentials     *graphql.Object
	notVerified            *graphql.Object

	updateOrderItemsResult  *graphql.Union
	setShippingMethodResult *graphql.Union
	authenticationResult    *graphql.Union
}

func newTypes(svc *Services) *types {
	t := &types{svc: svc}
	t.buildErrorResults()
	t.buildSettings()
	t.buildCatalog()
	t.buildOrders()
	t.buildIdentity()
	t.buildUnions()
	return t
}

func (t *types) buildErrorResults() {
	t.errorResult = graphql.NewInterface(graphql.InterfaceConfig{
		Name: "ErrorResult",
		Fields: graphql.Fields{
			"errorCode": &graphql.Field{Type: nonNull(graphql.String)},
			"message":   &graphql.Field{Type: nonNull(graphql.String)},
		},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			return t.errorResultObject(p.Value)
		},
	})

	errorFields := func(extra graphql.Fields) graphql.Fields {
		fields := graphql.Fields{
			"errorCode": field(nonNull(graphql.String), func(e shared.ErrorResult) any { return e.ErrorCode() }),
			"message":   field(nonNull(graphql.String), func(e shared.ErrorResult) any { return e.Message() }),
		}
		for name, f := range extra {
			fields[name] = f
		}
		return fields
	}
	newError := func(name string, extra graphql.Fields) *graphql.Object {
		return graphql.NewObject(graphql.ObjectConfig{
			Name:       name,
			Interfaces: []*graphql.Interface{t.errorResult},
			Fields:     errorFields(extra),
		})
	}

	t.orderModificationError = newError("OrderModificationError", nil)
	t.orderLimitError = newError("OrderLimitError", graphql.Fields{
		"maxItems": field(nonNull(graphql.Int), func(e *order.OrderLimitError) any { return e.MaxItems }),
	})
	t.negativeQuantityError = newError("NegativeQuantityError", nil)
	t.insufficientStockError = newError("InsufficientStockError", graphql.Fields{
		"quantityAvailable": field(nonNull(graphql.Int), func(e *order.InsufficientStockError) any { return e.QuantityAvailable }),
		// order is attached once the order type exists
	})
	t.invalidCredentials = newError("InvalidCredentialsError", graphql.Fields{
		"authenticationError": field(nonNull(graphql.String), func(e *identity.InvalidCredentialsError) any { return e.AuthenticationError }),
	})
	t.notVerified = newError("NotVerifiedError", nil)
}

func (t *types) errorResultObject(v any) *graphql.Object {
	switch v.(type) {
	case *order.OrderModificationError:
		return t.orderModificationError
	case *order.OrderLimitError:
		return t.orderLimitError
	case *order.NegativeQuantityError:
		return t.negativeQuantityError
	case *order.InsufficientStockError:
		return t.insufficientStockError
	case *identity.InvalidCredentialsError:
		return t.invalidCredentials
	case *identity.NotVerifiedError:
		return t.notVerified
	}
	return nil
}

func (t *types) buildSettings() {
	t.channel = graphql.NewObject(graphql.ObjectConfig{
		Name: "Channel",
		Fields: graphql.Fields{
			"id":                  field(nonNull(graphql.ID), func(c *channel.Channel) any { return c.ID.String() }),
			"code":                field(nonNull(graphql.String), func(c *channel.Channel) any { return c.Code }),
			"token":               field(nonNull(graphql.String), func(c *channel.Channel) any { return c.Token }),
			"defaultLanguageCode": field(nonNull(graphql.String), func(c *channel.Channel) any { return c.DefaultLanguageCode }),
			"currencyCode":        field(nonNull(graphql.String), func(c *channel.Channel) any { return c.CurrencyCode }),
			"pricesIncludeTax":    field(nonNull(graphql.Boolean), func(c *channel.Channel) any { return c.PricesIncludeTax }),
		},
	})

	t.country = graphql.NewObject(graphql.ObjectConfig{
		Name: "Country",
		Fields: graphql.Fields{
			"id":      field(nonNull(graphql.ID), func(c *geo.Country) any { return c.ID.String() }),
			"code":    field(nonNull(graphql.String), func(c *geo.Country) any { return c.Code }),
			"name":    field(nonNull(graphql.String), func(c *geo.Country) any { return c.Name }),
			"enabled": field(nonNull(graphql.Boolean), func(c *geo.Country) any { return c.Enabled }),
		},
	})

	t.zone = graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"id":   field(nonNull(graphql.ID), func(z *geo.Zone) any { return z.ID.String() }),
			"name": field(nonNull(graphql.String), func(z *geo.Zone) any { return z.Name }),
			"members": field(listOf(t.country), func(z *geo.Zone) any {
				return pointers(z.Members)
			}),
		},
	})

	t.taxCategory = graphql.NewObject(graphql.ObjectConfig{
		Name: "TaxCategory",
		Fields: graphql.Fields{
			"id":        field(nonNull(graphql.ID), func(c *tax.Category) any { return c.ID.String() }),
			"name":      field(nonNull(graphql.String), func(c *tax.Category) any { return c.Name }),
			"isDefault": field(nonNull(graphql.Boolean), func(c *tax.Category) any { return c.IsDefault }),
		},
	})

	t.taxRate = graphql.NewObject(graphql.ObjectConfig{
		Name: "TaxRate",
		Fields: graphql.Fields{
			"id":         field(nonNull(graphql.ID), func(r *tax.Rate) any { return r.ID.String() }),
			"name":       field(nonNull(graphql.String), func(r *tax.Rate) any { return r.Name }),
			"value":      field(nonNull(graphql.Float), func(r *tax.Rate) any { return r.Value.InexactFloat64() }),
			"enabled":    field(nonNull(graphql.Boolean), func(r *tax.Rate) any { return r.Enabled }),
			"categoryId": field(nonNull(graphql.ID), func(r *tax.Rate) any { return r.CategoryID.String() }),
			"zoneId":     field(nonNull(graphql.ID), func(r *tax.Rate) any { return r.ZoneID.String() }),
		},
	})

	t.shippingMethod = graphql.NewObject(graphql.ObjectConfig{
		Name: "ShippingMethod",
		Fields: graphql.Fields{
			"id":          field(nonNull(graphql.ID), func(m *shipping.Method) any { return m.ID.String() }),
			"code":        field(nonNull(graphql.String), func(m *shipping.Method) any { return m.Code }),
			"name":        field(nonNull(graphql.String), func(m *shipping.Method) any { return m.Name }),
			"description": field(nonNull(graphql.String), func(m *shipping.Method) any { return m.Description }),
			"price":       field(nonNull(graphql.Int), func(m *shipping.Method) any { return money(m.Price) }),
		},
	})

	t.shippingQuote = graphql.NewObject(graphql.ObjectConfig{
		Name: "ShippingMethodQuote",
		Fields: graphql.Fields{
			"id":           field(nonNull(graphql.ID), func(q *apporder.ShippingQuote) any { return q.Method.ID.String() }),
			"code":         field(nonNull(graphql.String), func(q *apporder.ShippingQuote) any { return q.Method.Code }),
			"name":         field(nonNull(graphql.String), func(q *apporder.ShippingQuote) any { return q.Method.Name }),
			"price":        field(nonNull(graphql.Int), func(q *apporder.ShippingQuote) any { return money(q.Price) }),
			"priceWithTax": field(nonNull(graphql.Int), func(q *apporder.ShippingQuote) any { return money(q.PriceWithTax) }),
		},
	})

	t.paymentMethod = graphql.NewObject(graphql.ObjectConfig{
		Name: "PaymentMethod",
		Fields: graphql.Fields{
			"id":          field(nonNull(graphql.ID), func(m *payment.Method) any { return m.ID.String() }),
			"code":        field(nonNull(graphql.String), func(m *payment.Method) any { return m.Code }),
			"name":        field(nonNull(graphql.String), func(m *payment.Method) any { return m.Name }),
			"enabled":     field(nonNull(graphql.Boolean), func(m *payment.Method) any { return m.Enabled }),
			"handlerCode": field(nonNull(graphql.String), func(m *payment.Method) any { return m.HandlerCode }),
		},
	})
}

func (t *types) buildCatalog() {
	t.facetValue = graphql.NewObject(graphql.ObjectConfig{
		Name: "FacetValue",
		Fields: graphql.Fields{
			"id":      field(nonNull(graphql.ID), func(v *catalog.FacetValue) any { return v.ID.String() }),
			"code":    field(nonNull(graphql.String), func(v *catalog.FacetValue) any { return v.Code }),
			"name":    field(nonNull(graphql.String), func(v *catalog.FacetValue) any { return v.Name }),
			"facetId": field(nonNull(graphql.ID), func(v *catalog.FacetValue) any { return v.FacetID.String() }),
		},
	})

	t.variant = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductVariant",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":             field(nonNull(graphql.ID), func(v *catalog.ProductVariant) any { return v.ID.String() }),
				"productId":      field(nonNull(graphql.ID), func(v *catalog.ProductVariant) any { return v.ProductID.String() }),
				"name":           field(nonNull(graphql.String), func(v *catalog.ProductVariant) any { return v.Name }),
				"sku":            field(nonNull(graphql.String), func(v *catalog.ProductVariant) any { return v.SKU }),
				"enabled":        field(nonNull(graphql.Boolean), func(v *catalog.ProductVariant) any { return v.Enabled }),
				"stockOnHand":    field(nonNull(graphql.Int), func(v *catalog.ProductVariant) any { return v.StockOnHand }),
				"trackInventory": field(nonNull(graphql.Boolean), func(v *catalog.ProductVariant) any { return v.TrackInventory }),
				"options":        field(listOf(graphql.String), func(v *catalog.ProductVariant) any { return nonNilStrings(v.Options) }),
				"price":          field(nonNull(graphql.Int), func(v *catalog.ProductVariant) any { return money(v.Price) }),
				"priceWithTax":   field(nonNull(graphql.Int), func(v *catalog.ProductVariant) any { return money(v.PriceWithTax) }),
				"currencyCode":   field(nonNull(graphql.String), func(v *catalog.ProductVariant) any { return v.CurrencyCode }),
				"taxRateApplied": field(nonNull(graphql.Float), func(v *catalog.ProductVariant) any { return v.TaxRateApplied.InexactFloat64() }),
				"facetValues": field(listOf(t.facetValue), func(v *catalog.ProductVariant) any {
					return pointers(v.FacetValues)
				}),
				"product": {
					Type: t.product,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						v, ok := p.Source.(*catalog.ProductVariant)
						if !ok {
							return nil, nil
						}
						if v.Product != nil {
							return v.Product, nil
						}
						rc, err := requestContext(p.Context)
						if err != nil {
							return nil, err
						}
						return t.svc.Variants.FindProduct(p.Context, rc, v.ProductID, "")
					},
				},
			}
		}),
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          field(nonNull(graphql.ID), func(p *catalog.Product) any { return p.ID.String() }),
				"name":        field(nonNull(graphql.String), func(p *catalog.Product) any { return p.Name }),
				"slug":        field(nonNull(graphql.String), func(p *catalog.Product) any { return p.Slug }),
				"description": field(nonNull(graphql.String), func(p *catalog.Product) any { return p.Description }),
				"enabled":     field(nonNull(graphql.Boolean), func(p *catalog.Product) any { return p.Enabled }),
				"facetValues": field(listOf(t.facetValue), func(p *catalog.Product) any { return pointers(p.FacetValues) }),
				"variants":    field(listOf(t.variant), func(p *catalog.Product) any { return pointers(p.Variants) }),
			}
		}),
	})

	t.collection = graphql.NewObject(graphql.ObjectConfig{
		Name: "Collection",
		Fields: graphql.Fields{
			"id":       field(nonNull(graphql.ID), func(c *catalog.Collection) any { return c.ID.String() }),
			"name":     field(nonNull(graphql.String), func(c *catalog.Collection) any { return c.Name }),
			"slug":     field(nonNull(graphql.String), func(c *catalog.Collection) any { return c.Slug }),
			"position": field(nonNull(graphql.Int), func(c *catalog.Collection) any { return c.Position }),
			"productVariants": &graphql.Field{
				Type: listOf(t.variant),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					c, ok := p.Source.(*catalog.Collection)
					if !ok {
						return nil, nil
					}
					rc, err := requestContext(p.Context)
					if err != nil {
						return nil, err
					}
					variants, err := t.svc.Collections.ProductVariants(p.Context, rc, c.Slug)
					if err != nil {
						return nil, err
					}
					return pointers(variants), nil
				},
			},
		},
	})
}

func (t *types) buildOrders() {
	t.orderLine = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderLine",
		Fields: graphql.Fields{
			"id":                   field(nonNull(graphql.ID), func(l *order.Line) any { return l.ID.String() }),
			"quantity":             field(nonNull(graphql.Int), func(l *order.Line) any { return l.Quantity }),
			"listPrice":            field(nonNull(graphql.Int), func(l *order.Line) any { return money(l.ListPrice) }),
			"listPriceIncludesTax": field(nonNull(graphql.Boolean), func(l *order.Line) any { return l.ListPriceIncludesTax }),
			"unitPrice":            field(nonNull(graphql.Int), func(l *order.Line) any { return money(l.UnitPrice) }),
			"unitPriceWithTax":     field(nonNull(graphql.Int), func(l *order.Line) any { return money(l.UnitPriceWithTax) }),
			"linePrice":            field(nonNull(graphql.Int), func(l *order.Line) any { return money(l.LinePrice()) }),
			"linePriceWithTax":     field(nonNull(graphql.Int), func(l *order.Line) any { return money(l.LinePriceWithTax()) }),
			"taxRate":              field(nonNull(graphql.Float), func(l *order.Line) any { return l.TaxRate.InexactFloat64() }),
			"productVariant": &graphql.Field{
				Type: nonNull(t.variant),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					l, ok := p.Source.(*order.Line)
					if !ok {
						return nil, nil
					}
					if l.ProductVariant != nil {
						return l.ProductVariant, nil
					}
					rc, err := requestContext(p.Context)
					if err != nil {
						return nil, err
					}
					return t.svc.Variants.FindOne(p.Context, rc, l.ProductVariantID)
				},
			},
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":               field(nonNull(graphql.ID), func(o *order.Order) any { return o.ID.String() }),
			"code":             field(nonNull(graphql.String), func(o *order.Order) any { return o.Code }),
			"state":            field(nonNull(graphql.String), func(o *order.Order) any { return string(o.State) }),
			"active":           field(nonNull(graphql.Boolean), func(o *order.Order) any { return o.Active }),
			"currencyCode":     field(nonNull(graphql.String), func(o *order.Order) any { return o.CurrencyCode }),
			"pricesIncludeTax": field(nonNull(graphql.Boolean), func(o *order.Order) any { return o.PricesIncludeTax }),
			"customerId": field(graphql.ID, func(o *order.Order) any {
				if o.CustomerID == nil {
					return nil
				}
				return o.CustomerID.String()
			}),
			"lines":           field(listOf(t.orderLine), func(o *order.Order) any { return pointers(o.Lines) }),
			"totalQuantity":   field(nonNull(graphql.Int), func(o *order.Order) any { return o.TotalQuantity }),
			"subTotal":        field(nonNull(graphql.Int), func(o *order.Order) any { return money(o.SubTotal) }),
			"subTotalWithTax": field(nonNull(graphql.Int), func(o *order.Order) any { return money(o.SubTotalWithTax) }),
			"shipping":        field(nonNull(graphql.Int), func(o *order.Order) any { return money(o.Shipping) }),
			"shippingWithTax": field(nonNull(graphql.Int), func(o *order.Order) any { return money(o.ShippingWithTax) }),
			"total":           field(nonNull(graphql.Int), func(o *order.Order) any { return money(o.Total) }),
			"totalWithTax":    field(nonNull(graphql.Int), func(o *order.Order) any { return money(o.TotalWithTax) }),
			"createdAt":       field(graphql.String, func(o *order.Order) any { return formatTime(o.CreatedAt) }),
			"updatedAt":       field(graphql.String, func(o *order.Order) any { return formatTime(o.UpdatedAt) }),
		},
	})

	t.insufficientStockError.AddFieldConfig("order", field(nonNull(t.order), func(e *order.InsufficientStockError) any { return e.Order }))

	t.orderList = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderList",
		Fields: graphql.Fields{
			"items":      field(listOf(t.order), func(l *shared.PaginatedList[order.Order]) any { return pointers(l.Items) }),
			"totalItems": field(nonNull(graphql.Int), func(l *shared.PaginatedList[order.Order]) any { return int(l.TotalItems) }),
		},
	})
}

func (t *types) buildIdentity() {
	t.currentUser = graphql.NewObject(graphql.ObjectConfig{
		Name: "CurrentUser",
		Fields: graphql.Fields{
			"id":         field(nonNull(graphql.ID), func(u *appidentity.CurrentUser) any { return u.ID.String() }),
			"identifier": field(nonNull(graphql.String), func(u *appidentity.CurrentUser) any { return u.Identifier }),
			"permissions": field(listOf(graphql.String), func(u *appidentity.CurrentUser) any {
				out := make([]string, 0, len(u.Permissions))
				for _, p := range u.Permissions {
					out = append(out, string(p))
				}
				return out
			}),
		},
	})

	t.customer = graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":           field(nonNull(graphql.ID), func(c *identity.Customer) any { return c.ID.String() }),
			"firstName":    field(nonNull(graphql.String), func(c *identity.Customer) any { return c.FirstName }),
			"lastName":     field(nonNull(graphql.String), func(c *identity.Customer) any { return c.LastName }),
			"emailAddress": field(nonNull(graphql.String), func(c *identity.Customer) any { return c.EmailAddress }),
			"userId": field(graphql.ID, func(c *identity.Customer) any {
				if c.UserID == nil {
					return nil
				}
				return c.UserID.String()
			}),
		},
	})

	t.customerList = graphql.NewObject(graphql.ObjectConfig{
		Name: "CustomerList",
		Fields: graphql.Fields{
			"items":      field(listOf(t.customer), func(l *shared.PaginatedList[identity.Customer]) any { return pointers(l.Items) }),
			"totalItems": field(nonNull(graphql.Int), func(l *shared.PaginatedList[identity.Customer]) any { return int(l.TotalItems) }),
		},
	})

	t.success = graphql.NewObject(graphql.ObjectConfig{
		Name: "Success",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: nonNull(graphql.Boolean)},
		},
	})
}

func (t *types) buildUnions() {
	t.updateOrderItemsResult = graphql.NewUnion(graphql.UnionConfig{
		Name: "UpdateOrderItemsResult",
		Types: []*graphql.Object{
			t.order,
			t.orderModificationError,
			t.orderLimitError,
			t.negativeQuantityError,
			t.insufficientStockError,
		},
		ResolveType: t.resolveOrderOrError,
	})

	t.setShippingMethodResult = graphql.NewUnion(graphql.UnionConfig{
		Name:        "SetOrderShippingMethodResult",
		Types:       []*graphql.Object{t.order, t.orderModificationError},
		ResolveType: t.resolveOrderOrError,
	})

	t.authenticationResult = graphql.NewUnion(graphql.UnionConfig{
		Name:  "NativeAuthenticationResult",
		Types: []*graphql.Object{t.currentUser, t.invalidCredentials, t.notVerified},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			if _, ok := p.Value.(*appidentity.CurrentUser); ok {
				return t.currentUser
			}
			return t.errorResultObject(p.Value)
		},
	})
}

func (t *types) resolveOrderOrError(p graphql.ResolveTypeParams) *graphql.Object {
	if _, ok := p.Value.(*order.Order); ok {
		return t.order
	}
	return t.errorResultObject(p.Value)
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
