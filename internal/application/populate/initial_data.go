// Package populate seeds a fresh store: channel, zones, tax, shipping, roles,
// the superadmin, the product catalog and sample customers.
package populate

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"gopkg.in/yaml.v3"
)

// CountryDefinition is a country and the zone it belongs to
type CountryDefinition struct {
	Code string `yaml:"code" validate:"required,len=2"`
	Name string `yaml:"name" validate:"required"`
	Zone string `yaml:"zone" validate:"required"`
}

// TaxRateDefinition creates a tax category with a rate in every zone
type TaxRateDefinition struct {
	Name       string  `yaml:"name" validate:"required"`
	Percentage float64 `yaml:"percentage" validate:"gte=0,lte=100"`
}

// ShippingMethodDefinition is a flat-rate shipping method; Price is in minor units
type ShippingMethodDefinition struct {
	Name  string `yaml:"name" validate:"required"`
	Price int64  `yaml:"price" validate:"gte=0"`
}

// HandlerArgument is a named argument of a payment handler
type HandlerArgument struct {
	Name  string `yaml:"name" validate:"required"`
	Value string `yaml:"value"`
}

// PaymentMethodDefinition is a payment method backed by a handler
type PaymentMethodDefinition struct {
	Name    string `yaml:"name" validate:"required"`
	Handler struct {
		Code      string            `yaml:"code" validate:"required"`
		Arguments []HandlerArgument `yaml:"arguments" validate:"dive"`
	} `yaml:"handler"`
}

// CollectionDefinition is a collection with its variant filters
type CollectionDefinition struct {
	Name    string                          `yaml:"name" validate:"required"`
	Slug    string                          `yaml:"slug"`
	Filters []catalog.ConfigurableOperation `yaml:"filters"`
}

// InitialData is the reference data a store is populated with
type InitialData struct {
	DefaultLanguage string                     `yaml:"defaultLanguage" validate:"required"`
	DefaultZone     string                     `yaml:"defaultZone" validate:"required"`
	TaxRates        []TaxRateDefinition        `yaml:"taxRates" validate:"required,min=1,dive"`
	ShippingMethods []ShippingMethodDefinition `yaml:"shippingMethods" validate:"dive"`
	Countries       []CountryDefinition        `yaml:"countries" validate:"required,min=1,dive"`
	Collections     []CollectionDefinition     `yaml:"collections" validate:"dive"`
	PaymentMethods  []PaymentMethodDefinition  `yaml:"paymentMethods" validate:"dive"`
}

// Validate checks field constraints and that the default zone is a zone of some country
func (d *InitialData) Validate() error {
	if err := validator.New().Struct(d); err != nil {
		return shared.NewDomainError("INVALID_INITIAL_DATA", err.Error())
	}
	for _, c := range d.Countries {
		if c.Zone == d.DefaultZone {
			return nil
		}
	}
	return shared.NewDomainError("INVALID_INITIAL_DATA",
		fmt.Sprintf("Default zone %q is not the zone of any country", d.DefaultZone))
}

// Zones returns the distinct zone names in country order
func (d *InitialData) Zones() []string {
	seen := make(map[string]bool)
	var zones []string
	for _, c := range d.Countries {
		if !seen[c.Zone] {
			seen[c.Zone] = true
			zones = append(zones, c.Zone)
		}
	}
	return zones
}

// ParseInitialData decodes and validates YAML initial data
func ParseInitialData(content []byte) (*InitialData, error) {
	var data InitialData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse initial data: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// LoadInitialData reads initial data from a YAML file
func LoadInitialData(path string) (*InitialData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial data %s: %w", path, err)
	}
	return ParseInitialData(content)
}
