package catalog

import (
	"fmt"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// FacetValueFilterCode is the code of the built-in collection filter that
// selects variants by facet values
const FacetValueFilterCode = "facet-value-filter"

// ConfigurableOperation is a filter code plus its arguments, as supplied in initial data
type ConfigurableOperation struct {
	Code string         `json:"code" yaml:"code"`
	Args map[string]any `json:"args" yaml:"args"`
}

// Collection is a dynamic grouping of variants defined by filters
type Collection struct {
	shared.BaseEntity
	Name     string
	Slug     string
	IsRoot   bool
	Position int
	Filters  []ConfigurableOperation
}

// NewCollection creates a collection after checking its filters are known
func NewCollection(name string, filters []ConfigurableOperation) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COLLECTION_NAME", "Collection name cannot be empty")
	}
	for _, f := range filters {
		if f.Code != FacetValueFilterCode {
			return nil, shared.NewDomainError("UNKNOWN_COLLECTION_FILTER", fmt.Sprintf("Unknown collection filter %q", f.Code))
		}
	}
	return &Collection{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       shared.Slugify(name),
		Filters:    filters,
	}, nil
}

// Matches reports whether the variant passes every filter of the collection.
// A collection without filters matches nothing.
func (c *Collection) Matches(v *ProductVariant) bool {
	if len(c.Filters) == 0 {
		return false
	}
	for _, f := range c.Filters {
		if !matchFacetValueFilter(f, v.AllFacetValues()) {
			return false
		}
	}
	return true
}

func matchFacetValueFilter(f ConfigurableOperation, values []FacetValue) bool {
	wanted := argStrings(f.Args["facetValueIds"])
	byID := len(wanted) > 0
	if !byID {
		wanted = argStrings(f.Args["facetValueNames"])
	}
	if len(wanted) == 0 {
		return false
	}
	containsAny := argBool(f.Args["containsAny"])

	hits := 0
	for _, w := range wanted {
		for _, fv := range values {
			if (byID && fv.ID.String() == w) || (!byID && fv.Is(w)) {
				hits++
				break
			}
		}
	}
	if containsAny {
		return hits > 0
	}
	return hits == len(wanted)
}

func argStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
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
		return strings.Split(t, ",")
	default:
		return []string{fmt.Sprint(t)}
	}
}

func argBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		return false
	}
}
