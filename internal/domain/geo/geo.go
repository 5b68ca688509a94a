// Package geo holds countries and the zones that group them for tax and shipping.
package geo

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Country is an ISO 3166 country
type Country struct {
	shared.BaseEntity
	Code    string
	Name    string
	Enabled bool
}

// NewCountry creates an enabled country
func NewCountry(code, name string) (*Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY_CODE", "Country code must have two letters: "+code)
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_COUNTRY_NAME", "Country name cannot be empty")
	}
	return &Country{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       strings.TrimSpace(name),
		Enabled:    true,
	}, nil
}

// Zone is a named group of countries
type Zone struct {
	shared.BaseEntity
	Name    string
	Members []Country
}

// NewZone creates an empty zone
func NewZone(name string) (*Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ZONE_NAME", "Zone name cannot be empty")
	}
	return &Zone{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Members:    make([]Country, 0),
	}, nil
}

// AddMember adds a country unless it is already a member
func (z *Zone) AddMember(c Country) {
	if z.Contains(c.Code) {
		return
	}
	z.Members = append(z.Members, c)
	z.Touch()
}

// Contains reports whether the country code is a member of the zone
func (z *Zone) Contains(countryCode string) bool {
	for _, m := range z.Members {
		if strings.EqualFold(m.Code, countryCode) {
			return true
		}
	}
	return false
}
