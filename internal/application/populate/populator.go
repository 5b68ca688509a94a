package populate

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/geo"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repositories groups the stores written during population
type Repositories struct {
	Channels        channel.Repository
	Countries       geo.CountryRepository
	Zones           geo.ZoneRepository
	TaxCategories   tax.CategoryRepository
	TaxRates        tax.RateRepository
	ShippingMethods shipping.Repository
	PaymentMethods  payment.Repository
	Roles           identity.RoleRepository
	Users           identity.UserRepository
	Administrators  identity.AdministratorRepository
	Facets          catalog.FacetRepository
	Products        catalog.ProductRepository
	Collections     catalog.CollectionRepository
}

// Config controls the default channel and superadmin created by the populator
type Config struct {
	ChannelToken       string
	CurrencyCode       string
	PricesIncludeTax   bool
	SuperadminUsername string
	SuperadminPassword string
	BcryptCost         int
}

// Populator writes initial data into an empty store
type Populator struct {
	repos  Repositories
	config Config
	logger *zap.Logger
}

// NewPopulator creates a new Populator
func NewPopulator(repos Repositories, config Config, logger *zap.Logger) *Populator {
	if config.CurrencyCode == "" {
		config.CurrencyCode = "USD"
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = identity.DefaultBcryptCost
	}
	return &Populator{
		repos:  repos,
		config: config,
		logger: logger,
	}
}

// Populate creates the default channel and all reference data except collections,
// which need the catalog to exist and are created by PopulateCollections.
func (p *Populator) Populate(ctx context.Context, data *InitialData) (*channel.Channel, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if _, err := p.repos.Channels.FindByCode(ctx, channel.DefaultChannelCode); err == nil {
		return nil, shared.NewDomainError("ALREADY_POPULATED", "The default channel already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	ch, err := channel.NewChannel(channel.DefaultChannelCode, p.config.ChannelToken, data.DefaultLanguage, p.config.CurrencyCode)
	if err != nil {
		return nil, err
	}
	ch.PricesIncludeTax = p.config.PricesIncludeTax
	if err := p.repos.Channels.Save(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to save default channel: %w", err)
	}

	zones, err := p.populateCountries(ctx, data.Countries)
	if err != nil {
		return nil, err
	}
	ch.SetDefaultZones(zones[data.DefaultZone].ID)
	if err := p.repos.Channels.Save(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to set default zones: %w", err)
	}

	if err := p.populateTaxRates(ctx, data.TaxRates, data.Zones(), zones); err != nil {
		return nil, err
	}
	if err := p.populateShippingMethods(ctx, data.ShippingMethods); err != nil {
		return nil, err
	}
	if err := p.populatePaymentMethods(ctx, data.PaymentMethods); err != nil {
		return nil, err
	}
	if err := p.populateRolesAndSuperadmin(ctx); err != nil {
		return nil, err
	}

	p.logger.Info("Populated initial data",
		zap.String("channel", ch.Code),
		zap.Int("countries", len(data.Countries)),
		zap.Int("zones", len(zones)),
		zap.Int("tax_rates", len(data.TaxRates)),
		zap.Int("shipping_methods", len(data.ShippingMethods)),
		zap.Int("payment_methods", len(data.PaymentMethods)),
	)
	return ch, nil
}

func (p *Populator) populateCountries(ctx context.Context, defs []CountryDefinition) (map[string]*geo.Zone, error) {
	zones := make(map[string]*geo.Zone)
	var order []string
	for _, def := range defs {
		country, err := geo.NewCountry(def.Code, def.Name)
		if err != nil {
			return nil, err
		}
		if err := p.repos.Countries.Save(ctx, country); err != nil {
			return nil, fmt.Errorf("failed to save country %s: %w", def.Code, err)
		}
		zone, ok := zones[def.Zone]
		if !ok {
			zone, err = geo.NewZone(def.Zone)
			if err != nil {
				return nil, err
			}
			zones[def.Zone] = zone
			order = append(order, def.Zone)
		}
		zone.AddMember(*country)
	}
	for _, name := range order {
		if err := p.repos.Zones.Save(ctx, zones[name]); err != nil {
			return nil, fmt.Errorf("failed to save zone %s: %w", name, err)
		}
	}
	return zones, nil
}

func (p *Populator) populateTaxRates(ctx context.Context, defs []TaxRateDefinition, zoneNames []string, zones map[string]*geo.Zone) error {
	for i, def := range defs {
		category, err := tax.NewCategory(def.Name, i == 0)
		if err != nil {
			return err
		}
		if err := p.repos.TaxCategories.Save(ctx, category); err != nil {
			return fmt.Errorf("failed to save tax category %s: %w", def.Name, err)
		}
		for _, zoneName := range zoneNames {
			zone := zones[zoneName]
			rate, err := tax.NewRate(fmt.Sprintf("%s %s", def.Name, zone.Name), decimal.NewFromFloat(def.Percentage), category.ID, zone.ID)
			if err != nil {
				return err
			}
			if err := p.repos.TaxRates.Save(ctx, rate); err != nil {
				return fmt.Errorf("failed to save tax rate %s: %w", rate.Name, err)
			}
		}
	}
	return nil
}

func (p *Populator) populateShippingMethods(ctx context.Context, defs []ShippingMethodDefinition) error {
	for _, def := range defs {
		method, err := shipping.NewMethod(def.Name, def.Price)
		if err != nil {
			return err
		}
		if err := p.repos.ShippingMethods.Save(ctx, method); err != nil {
			return fmt.Errorf("failed to save shipping method %s: %w", def.Name, err)
		}
	}
	return nil
}

func (p *Populator) populatePaymentMethods(ctx context.Context, defs []PaymentMethodDefinition) error {
	for _, def := range defs {
		args := make(map[string]string, len(def.Handler.Arguments))
		for _, a := range def.Handler.Arguments {
			args[a.Name] = a.Value
		}
		method, err := payment.NewMethod(def.Name, def.Handler.Code, args)
		if err != nil {
			return err
		}
		if err := p.repos.PaymentMethods.Save(ctx, method); err != nil {
			return fmt.Errorf("failed to save payment method %s: %w", def.Name, err)
		}
	}
	return nil
}

// populateRolesAndSuperadmin creates the built-in roles and the superadmin user.
// It runs before any customer exists, so the superadmin is user 1.
func (p *Populator) populateRolesAndSuperadmin(ctx context.Context) error {
	superAdminRole := identity.NewSuperAdminRole()
	if err := p.repos.Roles.Save(ctx, superAdminRole); err != nil {
		return fmt.Errorf("failed to save superadmin role: %w", err)
	}
	if err := p.repos.Roles.Save(ctx, identity.NewCustomerRole()); err != nil {
		return fmt.Errorf("failed to save customer role: %w", err)
	}

	user, err := identity.NewUser(p.config.SuperadminUsername, p.config.SuperadminPassword, p.config.BcryptCost)
	if err != nil {
		return err
	}
	user.MarkVerified()
	user.AssignRole(*superAdminRole)
	if err := p.repos.Users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save superadmin user: %w", err)
	}
	admin, err := identity.NewAdministrator("Super", "Admin", p.config.SuperadminUsername, user.ID)
	if err != nil {
		return err
	}
	if err := p.repos.Administrators.Save(ctx, admin); err != nil {
		return fmt.Errorf("failed to save superadmin: %w", err)
	}
	return nil
}

// PopulateCollections creates collections once facets exist. Facet value
// names in filters are resolved to IDs when every name resolves; otherwise
// the filter keeps matching by name.
func (p *Populator) PopulateCollections(ctx context.Context, defs []CollectionDefinition) error {
	facets, err := p.repos.Facets.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load facets: %w", err)
	}
	for i, def := range defs {
		filters := make([]catalog.ConfigurableOperation, 0, len(def.Filters))
		for _, f := range def.Filters {
			filters = append(filters, p.resolveFacetValueNames(f, facets))
		}
		collection, err := catalog.NewCollection(def.Name, filters)
		if err != nil {
			return err
		}
		if def.Slug != "" {
			collection.Slug = shared.Slugify(def.Slug)
		}
		collection.Position = i
		if err := p.repos.Collections.Save(ctx, collection); err != nil {
			return fmt.Errorf("failed to save collection %s: %w", def.Name, err)
		}
	}
	return nil
}

func (p *Populator) resolveFacetValueNames(op catalog.ConfigurableOperation, facets []catalog.Facet) catalog.ConfigurableOperation {
	names := stringList(op.Args["facetValueNames"])
	if op.Code != catalog.FacetValueFilterCode || len(names) == 0 {
		return op
	}
	args := make(map[string]any, len(op.Args)+1)
	for k, v := range op.Args {
		args[k] = v
	}
	var ids []string
	for _, name := range names {
		found := false
		for _, f := range facets {
			if v, ok := f.FindValue(name); ok {
				ids = append(ids, v.ID.String())
				found = true
				break
			}
		}
		if !found {
			p.logger.Warn("Collection filter references unknown facet value", zap.String("facet_value", name))
		}
	}
	if len(ids) == len(names) {
		args["facetValueIds"] = ids
	}
	return catalog.ConfigurableOperation{Code: op.Code, Args: args}
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}
