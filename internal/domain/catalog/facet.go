package catalog

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Facet is a dimension products can be classified by, e.g. "category"
type Facet struct {
	shared.BaseEntity
	Code   string
	Name   string
	Values []FacetValue
}

// FacetValue is a single classification within a facet, e.g. "plants"
type FacetValue struct {
	shared.BaseEntity
	FacetID shared.ID
	Code    string
	Name    string
}

// NewFacet creates a facet; the code is the lowercase name
func NewFacet(name string) (*Facet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FACET_NAME", "Facet name cannot be empty")
	}
	return &Facet{
		BaseEntity: shared.NewBaseEntity(),
		Code:       shared.Slugify(name),
		Name:       name,
		Values:     make([]FacetValue, 0),
	}, nil
}

// FindValue returns the value with the given name or code
func (f *Facet) FindValue(nameOrCode string) (*FacetValue, bool) {
	for i := range f.Values {
		if f.Values[i].Is(nameOrCode) {
			return &f.Values[i], true
		}
	}
	return nil, false
}

// AddValue adds a value to the facet unless one with the same name exists
func (f *Facet) AddValue(name string) (*FacetValue, error) {
	if existing, ok := f.FindValue(name); ok {
		return existing, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FACET_VALUE_NAME", "Facet value name cannot be empty")
	}
	f.Values = append(f.Values, FacetValue{
		BaseEntity: shared.NewBaseEntity(),
		FacetID:    f.ID,
		Code:       shared.Slugify(name),
		Name:       name,
	})
	return &f.Values[len(f.Values)-1], nil
}

// Is reports whether nameOrCode refers to this value
func (v FacetValue) Is(nameOrCode string) bool {
	return strings.EqualFold(v.Name, nameOrCode) || v.Code == shared.Slugify(nameOrCode)
}
