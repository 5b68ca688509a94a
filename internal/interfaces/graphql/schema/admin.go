package schema

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// NewAdminSchema builds the administrator schema served on the admin API
func NewAdminSchema(svc *Services) (graphql.Schema, error) {
	t := newTypes(svc)
	r := &adminResolver{svc: svc}

	listArgs := graphql.FieldConfigArgument{
		"skip":     &graphql.ArgumentConfig{Type: graphql.Int},
		"take":     &graphql.ArgumentConfig{Type: graphql.Int},
		"sort":     &graphql.ArgumentConfig{Type: graphql.String},
		"sortDesc": &graphql.ArgumentConfig{Type: graphql.Boolean},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: t.currentUser,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rc, err := requestContext(p.Context)
					if err != nil {
						return nil, err
					}
					if u := svc.Auth.Me(rc); u != nil {
						return u, nil
					}
					return nil, nil
				},
			},
			"order": &graphql.Field{
				Type:    t.order,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: nonNull(graphql.ID)}},
				Resolve: r.guard(identity.PermissionReadOrder, r.order),
			},
			"orders": &graphql.Field{
				Type:    nonNull(t.orderList),
				Args:    listArgs,
				Resolve: r.guard(identity.PermissionReadOrder, r.orders),
			},
			"productVariant": &graphql.Field{
				Type:    t.variant,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: nonNull(graphql.ID)}},
				Resolve: r.guard(identity.PermissionReadCatalog, r.productVariant),
			},
			"countries": &graphql.Field{
				Type:    listOf(t.country),
				Resolve: r.guard(identity.PermissionReadSettings, r.countries),
			},
			"zones": &graphql.Field{
				Type:    listOf(t.zone),
				Resolve: r.guard(identity.PermissionReadSettings, r.zones),
			},
			"taxRates": &graphql.Field{
				Type:    listOf(t.taxRate),
				Resolve: r.guard(identity.PermissionReadSettings, r.taxRates),
			},
			"shippingMethods": &graphql.Field{
				Type:    listOf(t.shippingMethod),
				Resolve: r.guard(identity.PermissionReadSettings, r.shippingMethods),
			},
			"paymentMethods": &graphql.Field{
				Type:    listOf(t.paymentMethod),
				Resolve: r.guard(identity.PermissionReadSettings, r.paymentMethods),
			},
			"customers": &graphql.Field{
				Type:    nonNull(t.customerList),
				Args:    listArgs,
				Resolve: r.guard(identity.PermissionReadCustomer, r.customers),
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
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

type adminResolver struct {
	svc *Services
}

type adminResolveFn func(p graphql.ResolveParams, rc *reqctx.RequestContext) (any, error)

// guard lets the call through for sessions holding the permission or SuperAdmin
func (r *adminResolver) guard(permission identity.Permission, fn adminResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		rc, err := requestContext(p.Context)
		if err != nil {
			return nil, err
		}
		session := rc.Session()
		if !session.IsAuthenticated() {
			return nil, shared.ErrUnauthorized
		}
		if !session.HasPermission(permission) && !session.HasPermission(identity.PermissionSuperAdmin) {
			return nil, shared.ErrForbidden
		}
		return fn(p, rc)
	}
}

func listOptions(p graphql.ResolveParams) shared.ListOptions {
	opts := shared.DefaultListOptions()
	if skip, ok := p.Args["skip"].(int); ok && skip > 0 {
		opts.Skip = skip
	}
	if take, ok := p.Args["take"].(int); ok && take > 0 {
		opts.Take = take
	}
	if sort, ok := p.Args["sort"].(string); ok && sort != "" {
		opts.OrderBy = sort
	}
	if desc, ok := p.Args["sortDesc"].(bool); ok {
		if desc {
			opts.OrderDir = "desc"
		} else {
			opts.OrderDir = "asc"
		}
	}
	return opts
}

func (r *adminResolver) order(p graphql.ResolveParams, rc *reqctx.RequestContext) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	o, err := r.svc.Orders.FindOne(p.Context, rc, id)
	if err != nil {
		return nil, notFoundAsNull(err)
	}
	return o, nil
}

func (r *adminResolver) orders(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	list, err := r.svc.Orders.FindAll(p.Context, listOptions(p))
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *adminResolver) productVariant(p graphql.ResolveParams, rc *reqctx.RequestContext) (any, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, err
	}
	v, err := r.svc.Variants.FindOne(p.Context, rc, id)
	if err != nil {
		return nil, notFoundAsNull(err)
	}
	return v, nil
}

func (r *adminResolver) countries(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	countries, err := r.svc.Countries.FindAll(p.Context)
	if err != nil {
		return nil, err
	}
	return pointers(countries), nil
}

func (r *adminResolver) zones(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	zones, err := r.svc.Zones.FindAll(p.Context)
	if err != nil {
		return nil, err
	}
	return pointers(zones), nil
}

func (r *adminResolver) taxRates(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	rates, err := r.svc.Taxes.Rates(p.Context)
	if err != nil {
		return nil, err
	}
	return pointers(rates), nil
}

func (r *adminResolver) shippingMethods(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	methods, err := r.svc.ShippingMethods.FindAll(p.Context)
	if err != nil {
		return nil, err
	}
	return pointers(methods), nil
}

func (r *adminResolver) paymentMethods(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	methods, err := r.svc.PaymentMethods.FindAll(p.Context)
	if err != nil {
		return nil, err
	}
	return pointers(methods), nil
}

func (r *adminResolver) customers(p graphql.ResolveParams, _ *reqctx.RequestContext) (any, error) {
	list, err := r.svc.Customers.FindAll(p.Context, listOptions(p))
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// notFoundAsNull maps ErrNotFound to a null result
func notFoundAsNull(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}
