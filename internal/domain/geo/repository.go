package geo

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared"
)

// CountryRepository persists countries
type CountryRepository interface {
	FindByCode(ctx context.Context, code string) (*Country, error)
	FindAll(ctx context.Context) ([]Country, error)
	Save(ctx context.Context, c *Country) error
}

// ZoneRepository persists zones with their members
type ZoneRepository interface {
	FindByID(ctx context.Context, id shared.ID) (*Zone, error)
	FindByName(ctx context.Context, name string) (*Zone, error)
	FindAll(ctx context.Context) ([]Zone, error)
	FindByCountryCode(ctx context.Context, code string) ([]Zone, error)
	Save(ctx context.Context, z *Zone) error
}
