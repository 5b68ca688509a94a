package populate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/channel"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopfront/backend/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Product CSV columns
const (
	ColumnName           = "name"
	ColumnSlug           = "slug"
	ColumnDescription    = "description"
	ColumnAssets         = "assets"
	ColumnFacets         = "facets"
	ColumnOptionGroups   = "optionGroups"
	ColumnOptionValues   = "optionValues"
	ColumnSKU            = "sku"
	ColumnPrice          = "price"
	ColumnTaxCategory    = "taxCategory"
	ColumnStockOnHand    = "stockOnHand"
	ColumnTrackInventory = "trackInventory"
	ColumnVariantAssets  = "variantAssets"
	ColumnVariantFacets  = "variantFacets"
)

var requiredColumns = []string{ColumnName, ColumnSKU, ColumnPrice, ColumnTaxCategory}

// listSeparator separates facets, option groups and option values in a cell
const listSeparator = "|"

// ImportResult summarizes a product import
type ImportResult struct {
	Products int
	Variants int
	Errors   []csvimport.RowError
}

// Importer creates products and variants from a product CSV
type Importer struct {
	facets        catalog.FacetRepository
	products      catalog.ProductRepository
	taxCategories tax.CategoryRepository
	logger        *zap.Logger

	facetCache map[string]*catalog.Facet
}

// NewImporter creates a new Importer
func NewImporter(
	facets catalog.FacetRepository,
	products catalog.ProductRepository,
	taxCategories tax.CategoryRepository,
	logger *zap.Logger,
) *Importer {
	return &Importer{
		facets:        facets,
		products:      products,
		taxCategories: taxCategories,
		logger:        logger,
		facetCache:    make(map[string]*catalog.Facet),
	}
}

// productGroup is a product row followed by the rows of its further variants
type productGroup struct {
	rows []*csvimport.Row
}

// ImportProducts reads the CSV and saves its products priced in the given channel.
// A row with an empty name adds a variant to the preceding product. Rows with
// errors skip their whole product; the returned error aggregates all row errors.
func (im *Importer) ImportProducts(ctx context.Context, ch *channel.Channel, r io.Reader) (*ImportResult, error) {
	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.ValidateHeaders(requiredColumns); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CSV", "Missing columns: "+strings.Join(missing, ", "))
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	categories, err := im.taxCategories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax categories: %w", err)
	}

	result := &ImportResult{}
	var errs *multierror.Error
	for _, group := range groupRows(rows, &errs) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		product, rowErrs := im.buildProduct(ctx, ch, group, categories)
		if len(rowErrs) > 0 {
			for _, e := range rowErrs {
				errs = multierror.Append(errs, e)
			}
			continue
		}
		if err := im.products.Save(ctx, product); err != nil {
			return result, fmt.Errorf("failed to save product %s: %w", product.Slug, err)
		}
		result.Products++
		result.Variants += len(product.Variants)
	}

	if errs != nil {
		for _, e := range errs.Errors {
			var rowErr csvimport.RowError
			if errors.As(e, &rowErr) {
				result.Errors = append(result.Errors, rowErr)
			}
		}
	}
	im.logger.Info("Imported products",
		zap.Int("products", result.Products),
		zap.Int("variants", result.Variants),
		zap.Int("errors", len(result.Errors)),
	)
	return result, errs.ErrorOrNil()
}

func groupRows(rows []*csvimport.Row, errs **multierror.Error) []productGroup {
	var groups []productGroup
	for _, row := range rows {
		if row.Get(ColumnName) != "" {
			groups = append(groups, productGroup{rows: []*csvimport.Row{row}})
			continue
		}
		if len(groups) == 0 {
			*errs = multierror.Append(*errs, csvimport.NewRowError(row.LineNumber, ColumnName,
				csvimport.ErrCodeRequiredField, "first row must name a product"))
			continue
		}
		last := &groups[len(groups)-1]
		last.rows = append(last.rows, row)
	}
	return groups
}

func (im *Importer) buildProduct(ctx context.Context, ch *channel.Channel, group productGroup, categories []tax.Category) (*catalog.Product, []error) {
	head := group.rows[0]
	product, err := catalog.NewProduct(head.Get(ColumnName), head.Get(ColumnSlug), head.Get(ColumnDescription))
	if err != nil {
		return nil, []error{csvimport.NewRowError(head.LineNumber, ColumnName, csvimport.ErrCodeInvalidFormat, err.Error())}
	}

	var errs []error
	facetValues, err := im.resolveFacetValues(ctx, head.Get(ColumnFacets))
	if err != nil {
		errs = append(errs, csvimport.NewRowErrorWithValue(head.LineNumber, ColumnFacets,
			csvimport.ErrCodeInvalidFormat, err.Error(), head.Get(ColumnFacets)))
	}
	product.FacetValues = facetValues

	optionGroups := splitList(head.Get(ColumnOptionGroups))
	for _, row := range group.rows {
		variant, rowErrs := im.buildVariant(ctx, ch, product, row, optionGroups, categories)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		product.Variants = append(product.Variants, *variant)
	}
	return product, errs
}

func (im *Importer) buildVariant(
	ctx context.Context,
	ch *channel.Channel,
	product *catalog.Product,
	row *csvimport.Row,
	optionGroups []string,
	categories []tax.Category,
) (*catalog.ProductVariant, []error) {
	var errs []error
	line := row.LineNumber

	options := splitList(row.Get(ColumnOptionValues))
	if len(options) != len(optionGroups) {
		errs = append(errs, csvimport.NewRowError(line, ColumnOptionValues, csvimport.ErrCodeMismatchedColumns,
			fmt.Sprintf("expected %d option values, got %d", len(optionGroups), len(options))))
	}

	price, err := parseMajorUnits(row.Get(ColumnPrice))
	if err != nil {
		errs = append(errs, csvimport.NewRowErrorWithValue(line, ColumnPrice, csvimport.ErrCodeInvalidFormat,
			"price must be a non-negative decimal", row.Get(ColumnPrice)))
	}

	category := findCategory(categories, row.Get(ColumnTaxCategory))
	if category == nil {
		errs = append(errs, csvimport.NewRowErrorWithValue(line, ColumnTaxCategory, csvimport.ErrCodeReferenceNotFound,
			"unknown tax category", row.Get(ColumnTaxCategory)))
	}

	stock, err := strconv.Atoi(row.GetOrDefault(ColumnStockOnHand, "0"))
	if err != nil {
		errs = append(errs, csvimport.NewRowErrorWithValue(line, ColumnStockOnHand, csvimport.ErrCodeInvalidFormat,
			"stockOnHand must be an integer", row.Get(ColumnStockOnHand)))
	}

	track, err := strconv.ParseBool(row.GetOrDefault(ColumnTrackInventory, "false"))
	if err != nil {
		errs = append(errs, csvimport.NewRowErrorWithValue(line, ColumnTrackInventory, csvimport.ErrCodeInvalidFormat,
			"trackInventory must be true or false", row.Get(ColumnTrackInventory)))
	}

	facetValues, err := im.resolveFacetValues(ctx, row.Get(ColumnVariantFacets))
	if err != nil {
		errs = append(errs, csvimport.NewRowErrorWithValue(line, ColumnVariantFacets, csvimport.ErrCodeInvalidFormat,
			err.Error(), row.Get(ColumnVariantFacets)))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	name := product.Name
	if len(options) > 0 {
		name = product.Name + " " + strings.Join(options, " ")
	}
	variant, err := catalog.NewProductVariant(product.ID, name, row.Get(ColumnSKU), category.ID)
	if err != nil {
		return nil, []error{csvimport.NewRowError(line, ColumnSKU, csvimport.ErrCodeInvalidFormat, err.Error())}
	}
	variant.Options = options
	variant.StockOnHand = stock
	variant.TrackInventory = track
	variant.FacetValues = facetValues
	if err := variant.SetChannelPrice(ch.ID, price, ch.CurrencyCode); err != nil {
		return nil, []error{csvimport.NewRowError(line, ColumnPrice, csvimport.ErrCodeInvalidFormat, err.Error())}
	}
	return variant, nil
}

// resolveFacetValues turns "facet:value|facet:value" into facet values,
// creating facets and values that do not exist yet.
func (im *Importer) resolveFacetValues(ctx context.Context, cell string) ([]catalog.FacetValue, error) {
	values := make([]catalog.FacetValue, 0)
	for _, pair := range splitList(cell) {
		facetName, valueName, ok := strings.Cut(pair, ":")
		facetName, valueName = strings.TrimSpace(facetName), strings.TrimSpace(valueName)
		if !ok || facetName == "" || valueName == "" {
			return nil, fmt.Errorf("facet %q must have the form facet:value", pair)
		}
		facet, err := im.facet(ctx, facetName)
		if err != nil {
			return nil, err
		}
		value, ok := facet.FindValue(valueName)
		if !ok {
			if _, err := facet.AddValue(valueName); err != nil {
				return nil, err
			}
			if err := im.facets.Save(ctx, facet); err != nil {
				return nil, fmt.Errorf("failed to save facet %s: %w", facet.Code, err)
			}
			value, _ = facet.FindValue(valueName)
		}
		values = append(values, *value)
	}
	return values, nil
}

func (im *Importer) facet(ctx context.Context, name string) (*catalog.Facet, error) {
	code := shared.Slugify(name)
	if f, ok := im.facetCache[code]; ok {
		return f, nil
	}
	f, err := im.facets.FindByCode(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		f, err = catalog.NewFacet(name)
		if err != nil {
			return nil, err
		}
		if err := im.facets.Save(ctx, f); err != nil {
			return nil, fmt.Errorf("failed to save facet %s: %w", code, err)
		}
	} else if err != nil {
		return nil, err
	}
	im.facetCache[code] = f
	return f, nil
}

func findCategory(categories []tax.Category, nameOrCode string) *tax.Category {
	for i := range categories {
		if nameOrCode == "" && categories[i].IsDefault {
			return &categories[i]
		}
		if nameOrCode != "" && categories[i].Matches(nameOrCode) {
			return &categories[i]
		}
	}
	return nil
}

// parseMajorUnits converts "12.50" into 1250 minor units
func parseMajorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %s", s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
