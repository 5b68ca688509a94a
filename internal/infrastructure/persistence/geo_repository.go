package persistence

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/geo"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCountryRepository implements geo.CountryRepository using GORM
type GormCountryRepository struct {
	db *gorm.DB
}

// NewGormCountryRepository creates a new GormCountryRepository
func NewGormCountryRepository(db *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{db: db}
}

// FindByCode finds a country by its ISO code
func (r *GormCountryRepository) FindByCode(ctx context.Context, code string) (*geo.Country, error) {
	var model models.CountryModel
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every country ordered by name
func (r *GormCountryRepository) FindAll(ctx context.Context) ([]geo.Country, error) {
	var rows []models.CountryModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	countries := make([]geo.Country, 0, len(rows))
	for i := range rows {
		countries = append(countries, *rows[i].ToDomain())
	}
	return countries, nil
}

// Save creates or updates a country
func (r *GormCountryRepository) Save(ctx context.Context, c *geo.Country) error {
	var model models.CountryModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}

// GormZoneRepository implements geo.ZoneRepository using GORM
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GormZoneRepository
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

func (r *GormZoneRepository) withMembers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("countries.id")
	})
}

// FindByID finds a zone with its member countries
func (r *GormZoneRepository) FindByID(ctx context.Context, id shared.ID) (*geo.Zone, error) {
	var model models.ZoneModel
	if err := r.withMembers(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a zone by its unique name
func (r *GormZoneRepository) FindByName(ctx context.Context, name string) (*geo.Zone, error) {
	var model models.ZoneModel
	if err := r.withMembers(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every zone ordered by ID
func (r *GormZoneRepository) FindAll(ctx context.Context) ([]geo.Zone, error) {
	var rows []models.ZoneModel
	if err := r.withMembers(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return zonesToDomain(rows), nil
}

// FindByCountryCode returns the zones containing the given country
func (r *GormZoneRepository) FindByCountryCode(ctx context.Context, code string) ([]geo.Zone, error) {
	members := r.db.Table("zone_members").
		Select("zone_members.zone_id").
		Joins("JOIN countries ON countries.id = zone_members.country_id").
		Where("countries.code = ?", strings.ToUpper(code))

	var rows []models.ZoneModel
	if err := r.withMembers(ctx).Where("id IN (?)", members).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return zonesToDomain(rows), nil
}

// Save creates or updates a zone and replaces its member list.
// Member countries must already be persisted.
func (r *GormZoneRepository) Save(ctx context.Context, z *geo.Zone) error {
	var model models.ZoneModel
	model.FromDomain(z)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Model(&model).Association("Members").Replace(model.Members); err != nil {
			return err
		}
		z.ID = model.ID
		return nil
	})
}

func zonesToDomain(rows []models.ZoneModel) []geo.Zone {
	zones := make([]geo.Zone, 0, len(rows))
	for i := range rows {
		zones = append(zones, *rows[i].ToDomain())
	}
	return zones
}
