package persistence

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var variantModelType = reflect.TypeOf(models.ProductVariantModel{})

// variantRelations are always loaded with a variant so prices can be applied
var variantRelations = []string{"ChannelPrices", "FacetValues", "Product", "Product.FacetValues"}

// GormEntityLoader loads fresh copies of entities with relations preloaded.
// It serves the entity hydrator.
type GormEntityLoader struct {
	db *gorm.DB
}

// NewGormEntityLoader creates a new GormEntityLoader
func NewGormEntityLoader(db *gorm.DB) *GormEntityLoader {
	return &GormEntityLoader{db: db}
}

// Load reloads target by ID with the given relation paths populated.
// The result has the same pointer type as target.
func (l *GormEntityLoader) Load(ctx context.Context, target shared.Entity, relations []string) (shared.Entity, error) {
	switch t := target.(type) {
	case *order.Order:
		var model models.OrderModel
		if err := l.first(ctx, &model, t.ID, relations); err != nil {
			return nil, err
		}
		return model.ToDomain(), nil
	case *catalog.Product:
		var model models.ProductModel
		if err := l.first(ctx, &model, t.ID, relations); err != nil {
			return nil, err
		}
		return model.ToDomain(), nil
	case *catalog.ProductVariant:
		var model models.ProductVariantModel
		if err := l.first(ctx, &model, t.ID, relations); err != nil {
			return nil, err
		}
		return model.ToDomain(), nil
	default:
		return nil, shared.NewDomainError("UNSUPPORTED_HYDRATION_TARGET",
			fmt.Sprintf("Cannot load relations of %T", target))
	}
}

func (l *GormEntityLoader) first(ctx context.Context, model any, id shared.ID, relations []string) error {
	preloads, err := preloadPaths(reflect.TypeOf(model).Elem(), relations)
	if err != nil {
		return err
	}
	query := l.db.WithContext(ctx)
	for _, p := range preloads {
		query = query.Preload(p, orderByID)
	}
	return translateError(query.First(model, id).Error)
}

// preloadPaths turns relation paths like "lines.productVariant" into gorm
// preload paths for model type t. Every intermediate path is included, and
// variants reached along the way get their pricing relations.
func preloadPaths(t reflect.Type, relations []string) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	if t == variantModelType {
		for _, r := range variantRelations {
			add(r)
		}
	}

	for _, rel := range relations {
		current := t
		prefix := make([]string, 0)
		for _, seg := range strings.Split(rel, ".") {
			name := strcase.ToCamel(seg)
			f, ok := current.FieldByName(name)
			if !ok || relationType(f.Type) == nil {
				return nil, shared.NewDomainError("UNKNOWN_RELATION", fmt.Sprintf("Unknown relation %q", rel))
			}
			prefix = append(prefix, name)
			path := strings.Join(prefix, ".")
			add(path)

			current = relationType(f.Type)
			if current == variantModelType {
				for _, r := range variantRelations {
					add(path + "." + r)
				}
			}
		}
	}
	return out, nil
}

// relationType returns the model struct behind a relation field, or nil
func relationType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.PkgPath() != variantModelType.PkgPath() {
		return nil
	}
	return t
}
