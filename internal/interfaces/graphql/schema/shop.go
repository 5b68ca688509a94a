package schema

import (
	"errors"

	"github.com/graphql-go/graphql"
	appidentity "github.com/shopfront/backend/internal/application/identity"
	apporder "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
)

// NewShopSchema builds the customer-facing schema served on the shop API
func NewShopSchema(svc *Services) (graphql.Schema, error) {
	t := newTypes(svc)
	r := &shopResolver{svc: svc}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"activeChannel": &graphql.Field{
				Type:    nonNull(t.channel),
				Resolve: r.activeChannel,
			},
			"activeOrder": &graphql.Field{
				Type:    t.order,
				Resolve: r.activeOrder,
			},
			"me": &graphql.Field{
				Type:    t.currentUser,
				Resolve: r.me,
			},
			"product": &graphql.Field{
				Type: t.product,
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.ID},
					"slug": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.product,
			},
			"collections": &graphql.Field{
				Type:    listOf(t.collection),
				Resolve: r.collections,
			},
			"collection": &graphql.Field{
				Type: t.collection,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: nonNull(graphql.String)},
				},
				Resolve: r.collection,
			},
			"eligibleShippingMethods": &graphql.Field{
				Type:    listOf(t.shippingQuote),
				Resolve: r.eligibleShippingMethods,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: nonNull(t.authenticationResult),
				Args: graphql.FieldConfigArgument{
					"username":   &graphql.ArgumentConfig{Type: nonNull(graphql.String)},
					"password":   &graphql.ArgumentConfig{Type: nonNull(graphql.String)},
					"rememberMe": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: loginResolver(svc),
			},
			"logout": &graphql.Field{
				Type:    nonNull(t.success),
				Resolve: logoutResolver(svc),
			},
			"addItemToOrder": &graphql.Field{
				Type: nonNull(t.updateOrderItemsResult),
				Args: graphql.FieldConfigArgument{
					"productVariantId": &graphql.ArgumentConfig{Type: nonNull(graphql.ID)},
					"quantity":         &graphql.ArgumentConfig{Type: nonNull(graphql.Int)},
				},
				Resolve: r.addItemToOrder,
			},
			"adjustOrderLine": &graphql.Field{
				Type: nonNull(t.updateOrderItemsResult),
				Args: graphql.FieldConfigArgument{
					"orderLineId": &graphql.ArgumentConfig{Type: nonNull(graphql.ID)},
					"quantity":    &graphql.ArgumentConfig{Type: nonNull(graphql.Int)},
				},
				Resolve: r.adjustOrderLine,
			},
			"removeOrderLine": &graphql.Field{
				Type: nonNull(t.updateOrderItemsResult),
				Args: graphql.FieldConfigArgument{
					"orderLineId": &graphql.ArgumentConfig{Type: nonNull(graphql.ID)},
				},
				Resolve: r.removeOrderLine,
			},
			"setOrderShippingMethod": &graphql.Field{
				Type: nonNull(t.setShippingMethodResult),
				Args: graphql.FieldConfigArgument{
					"shippingMethodId": &graphql.ArgumentConfig{Type: nonNull(graphql.ID)},
				},
				Resolve: r.setOrderShippingMethod,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

type shopResolver struct {
	svc *Services
}

func (r *shopResolver) activeChannel(p graphql.ResolveParams) (any, error) {
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	return rc.Channel(), nil
}

func (r *shopResolver) activeOrder(p graphql.ResolveParams) (any, error) {
	o, err := r.currentOrder(p, false)
	if err != nil || o == nil {
		return nil, err
	}
	return o, nil
}

func (r *shopResolver) me(p graphql.ResolveParams) (any, error) {
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	if u := r.svc.Auth.Me(rc); u != nil {
		return u, nil
	}
	return nil, nil
}

func (r *shopResolver) product(p graphql.ResolveParams) (any, error) {
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	slug := stringArg(p, "slug")
	if id.IsZero() && slug == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Either the product id or slug must be provided")
	}
	prod, err := r.svc.Variants.FindProduct(p.Context, rc, id, slug)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return prod, err
}

func (r *shopResolver) collections(p graphql.ResolveParams) (any, error) {
	collections, err := r.svc.Collections.Collections(p.Context)
	if err != nil {
		return nil, err
	}
	return pointers(collections), nil
}

func (r *shopResolver) collection(p graphql.ResolveParams) (any, error) {
	c, err := r.svc.Collections.FindBySlug(p.Context, stringArg(p, "slug"))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (r *shopResolver) eligibleShippingMethods(p graphql.ResolveParams) (any, error) {
	o, err := r.currentOrder(p, false)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return []*apporder.ShippingQuote{}, nil
	}
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	quotes, err := r.svc.Orders.EligibleShippingMethods(p.Context, rc, o.ID)
	if err != nil {
		return nil, err
	}
	return pointers(quotes), nil
}

func (r *shopResolver) addItemToOrder(p graphql.ResolveParams) (any, error) {
	variantID, err := idArg(p, "productVariantId")
	if err != nil {
		return nil, err
	}
	o, err := r.currentOrder(p, true)
	if err != nil {
		return nil, err
	}
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	updated, result, err := r.svc.Orders.AddItemToOrder(p.Context, rc, o.ID, variantID, intArg(p, "quantity"))
	return errorResultOrValue(p.Context, updated, result, err)
}

func (r *shopResolver) adjustOrderLine(p graphql.ResolveParams) (any, error) {
	lineID, err := idArg(p, "orderLineId")
	if err != nil {
		return nil, err
	}
	o, err := r.requireOrder(p)
	if err != nil {
		return nil, err
	}
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	updated, result, err := r.svc.Orders.AdjustOrderLine(p.Context, rc, o.ID, lineID, intArg(p, "quantity"))
	return errorResultOrValue(p.Context, updated, result, err)
}

func (r *shopResolver) removeOrderLine(p graphql.ResolveParams) (any, error) {
	lineID, err := idArg(p, "orderLineId")
	if err != nil {
		return nil, err
	}
	o, err := r.requireOrder(p)
	if err != nil {
		return nil, err
	}
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	updated, result, err := r.svc.Orders.RemoveOrderLine(p.Context, rc, o.ID, lineID)
	return errorResultOrValue(p.Context, updated, result, err)
}

func (r *shopResolver) setOrderShippingMethod(p graphql.ResolveParams) (any, error) {
	methodID, err := idArg(p, "shippingMethodId")
	if err != nil {
		return nil, err
	}
	o, err := r.requireOrder(p)
	if err != nil {
		return nil, err
	}
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	updated, result, err := r.svc.Orders.SetShippingMethod(p.Context, rc, o.ID, methodID)
	return errorResultOrValue(p.Context, updated, result, err)
}

// currentOrder resolves the session's active order. With create set, an
// anonymous session and an order are started when missing.
func (r *shopResolver) currentOrder(p graphql.ResolveParams, create bool) (*order.Order, error) {
	rc, err := requestContext(p.Context)
	if err != nil {
		return nil, err
	}
	if create {
		if rc, err = ensureSession(p.Context, r.svc); err != nil {
			return nil, err
		}
	}
	o, err := r.svc.ActiveOrders.GetActiveOrder(p.Context, rc, nil, create)
	if errors.Is(err, apporder.ErrNoActiveSession) {
		return nil, nil
	}
	return o, err
}

func (r *shopResolver) requireOrder(p graphql.ResolveParams) (*order.Order, error) {
	o, err := r.currentOrder(p, false)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNoActiveOrder
	}
	return o, nil
}

func loginResolver(svc *Services) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		rc, err := requestContext(p.Context)
		if err != nil {
			return nil, err
		}
		res, result, err := svc.Auth.Authenticate(p.Context, rc, appidentity.LoginInput{
			Username: stringArg(p, "username"),
			Password: stringArg(p, "password"),
		})
		if err != nil || result != nil {
			return errorResultOrValue(p.Context, nil, result, err)
		}
		requestStateFrom(p.Context).issue(res.Session, rc.WithSession(res.Session).WithAuthorization(true, rc.AuthorizedAsOwnerOnly()))
		user := res.User
		return &user, nil
	}
}

func logoutResolver(svc *Services) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		rc, err := requestContext(p.Context)
		if err != nil {
			return nil, err
		}
		if err := svc.Auth.Logout(p.Context, rc); err != nil {
			return nil, err
		}
		requestStateFrom(p.Context).clear()
		return map[string]any{"success": true}, nil
	}
}
