// Package hydration fills in relations of an already loaded entity in place.
//
// A relation path such as "lines.productVariant" names fields from the root
// entity downwards. Missing relations are fetched through a Loader and merged
// into the target without replacing anything the target already holds.
package hydration

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/shopfront/backend/internal/application/reqctx"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Loader loads a fresh copy of an entity with the given relation paths populated
type Loader interface {
	Load(ctx context.Context, target shared.Entity, relations []string) (shared.Entity, error)
}

// PriceApplier computes channel prices of a variant
type PriceApplier interface {
	ApplyChannelPriceAndTax(ctx context.Context, rc *reqctx.RequestContext, v *catalog.ProductVariant, o *order.Order) error
}

// Options selects what to hydrate
type Options struct {
	Relations []string
	// ApplyProductVariantPrices applies channel price and tax to every
	// ProductVariant reached through Relations (or the target itself)
	ApplyProductVariantPrices bool
}

// ErrUnknownRelation is returned for relation paths the target type does not have
var ErrUnknownRelation = shared.NewDomainError("UNKNOWN_RELATION", "Unknown relation")

// EntityHydrator merges relations into entities
type EntityHydrator struct {
	loader Loader
	prices PriceApplier
	logger *zap.Logger
}

// NewEntityHydrator creates a new EntityHydrator
func NewEntityHydrator(loader Loader, prices PriceApplier, logger *zap.Logger) *EntityHydrator {
	return &EntityHydrator{loader: loader, prices: prices, logger: logger}
}

var variantType = reflect.TypeOf(catalog.ProductVariant{})

// Hydrate loads opts.Relations into target. Repeated calls are idempotent.
func (h *EntityHydrator) Hydrate(ctx context.Context, rc *reqctx.RequestContext, target shared.Entity, opts Options) error {
	root := reflect.ValueOf(target)
	if root.Kind() != reflect.Ptr || root.IsNil() || root.Elem().Kind() != reflect.Struct {
		return shared.NewDomainError("INVALID_HYDRATION_TARGET", "Hydration target must be a non-nil struct pointer")
	}
	if target.GetID().IsZero() {
		return shared.NewDomainError("INVALID_HYDRATION_TARGET", "Hydration target has no ID")
	}

	paths := make([][]string, 0, len(opts.Relations))
	for _, rel := range opts.Relations {
		path, err := fieldPath(root.Elem().Type(), rel)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	missing := make([]string, 0)
	for i, path := range paths {
		if !isPresent(root.Elem(), path) {
			missing = append(missing, opts.Relations[i])
		}
	}
	if len(missing) > 0 {
		h.logger.Debug("Hydrating relations",
			zap.String("entity", root.Elem().Type().Name()),
			zap.Stringer("id", target.GetID()),
			zap.Strings("relations", missing))

		loaded, err := h.loader.Load(ctx, target, missing)
		if err != nil {
			return fmt.Errorf("hydrate %s: %w", root.Elem().Type().Name(), err)
		}
		src := reflect.ValueOf(loaded)
		if src.Type() != root.Type() {
			return fmt.Errorf("hydrate: loader returned %s for %s", src.Type(), root.Type())
		}
		for _, path := range paths {
			merge(root.Elem(), src.Elem(), path)
		}
	}

	if opts.ApplyProductVariantPrices {
		o, _ := target.(*order.Order)
		variants := make([]*catalog.ProductVariant, 0)
		seen := make(map[*catalog.ProductVariant]bool)
		collect := func(v *catalog.ProductVariant) {
			if !seen[v] {
				seen[v] = true
				variants = append(variants, v)
			}
		}
		if root.Elem().Type() == variantType {
			collect(root.Interface().(*catalog.ProductVariant))
		}
		for _, path := range paths {
			collectVariants(root.Elem(), path, collect)
		}
		for _, v := range variants {
			if err := h.prices.ApplyChannelPriceAndTax(ctx, rc, v, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// fieldPath converts "lines.productVariant" into struct field names and
// checks them against t
func fieldPath(t reflect.Type, relation string) ([]string, error) {
	segments := strings.Split(relation, ".")
	path := make([]string, 0, len(segments))
	for _, seg := range segments {
		name := strcase.ToCamel(seg)
		t = structType(t)
		if t == nil {
			return nil, shared.NewDomainError(ErrUnknownRelation.Code, "Unknown relation \""+relation+"\"")
		}
		f, ok := t.FieldByName(name)
		if !ok || !isRelationKind(f.Type) {
			return nil, shared.NewDomainError(ErrUnknownRelation.Code, "Unknown relation \""+relation+"\"")
		}
		path = append(path, name)
		t = f.Type
	}
	return path, nil
}

func isRelationKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice:
		return structType(t) != nil
	}
	return false
}

// structType unwraps pointers and slices down to a struct type, or nil
func structType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// deref unwraps pointers; it returns an invalid Value for nil pointers
func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isPresent(v reflect.Value, path []string) bool {
	f := v.FieldByName(path[0])
	switch f.Kind() {
	case reflect.Ptr:
		if f.IsNil() {
			return false
		}
		return len(path) == 1 || isPresent(deref(f), path[1:])
	case reflect.Slice:
		if f.Len() == 0 {
			return false
		}
		if len(path) == 1 {
			return true
		}
		for i := 0; i < f.Len(); i++ {
			elem := deref(f.Index(i))
			if !elem.IsValid() || !isPresent(elem, path[1:]) {
				return false
			}
		}
		return true
	}
	return false
}

// merge copies relation values from src into dst along path. Present values
// in dst are kept; slice elements are matched by ID.
func merge(dst, src reflect.Value, path []string) {
	df := dst.FieldByName(path[0])
	sf := src.FieldByName(path[0])
	switch df.Kind() {
	case reflect.Ptr:
		if df.IsNil() {
			df.Set(sf)
			return
		}
		if len(path) > 1 && !sf.IsNil() {
			merge(deref(df), deref(sf), path[1:])
		}
	case reflect.Slice:
		if df.Len() == 0 {
			df.Set(sf)
			return
		}
		if len(path) == 1 {
			return
		}
		byID := make(map[uint64]reflect.Value, sf.Len())
		for i := 0; i < sf.Len(); i++ {
			if elem := deref(sf.Index(i)); elem.IsValid() {
				byID[entityID(elem)] = elem
			}
		}
		for i := 0; i < df.Len(); i++ {
			elem := deref(df.Index(i))
			if !elem.IsValid() {
				continue
			}
			if match, ok := byID[entityID(elem)]; ok {
				merge(elem, match, path[1:])
			}
		}
	}
}

func entityID(v reflect.Value) uint64 {
	f := v.FieldByName("ID")
	if !f.IsValid() {
		return 0
	}
	return f.Uint()
}

func collectVariants(v reflect.Value, path []string, collect func(*catalog.ProductVariant)) {
	f := v.FieldByName(path[0])
	visit := func(elem reflect.Value) {
		if !elem.IsValid() {
			return
		}
		if elem.Type() == variantType && elem.CanAddr() {
			collect(elem.Addr().Interface().(*catalog.ProductVariant))
		}
		if len(path) > 1 {
			collectVariants(elem, path[1:], collect)
		}
	}
	switch f.Kind() {
	case reflect.Ptr:
		visit(deref(f))
	case reflect.Slice:
		for i := 0; i < f.Len(); i++ {
			visit(deref(f.Index(i)))
		}
	}
}
