// Package pipeline derives the visible product list and filter facets from
// the catalog. Everything here is pure: inputs are never modified.
package pipeline

import (
	"log"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/models"
)

// DefaultLocale is used for name ordering when none is configured
const DefaultLocale = "en"

// Pipeline holds the collation locale used for name ordering
type Pipeline struct {
	tag language.Tag
}

// New creates a Pipeline for locale (a BCP 47 tag). An unparseable tag falls
// back to the root collation.
func New(locale string) *Pipeline {
	tag, err := language.Parse(locale)
	if err != nil {
		log.Printf("⚠️  Unknown collation locale '%s', using root collation", locale)
		tag = language.Und
	}
	return &Pipeline{tag: tag}
}

// defaultPipeline backs the package-level helpers
var defaultPipeline = New(DefaultLocale)

// VisibleProducts runs the default pipeline
func VisibleProducts(catalog []models.Product, searchTerm string, filters models.FilterSet, sortKey models.SortKey) []models.Product {
	return defaultPipeline.VisibleProducts(catalog, searchTerm, filters, sortKey)
}

// Query runs the pipeline for a bundled query
func (p *Pipeline) Query(catalog []models.Product, q models.ProductQuery) []models.Product {
	return p.VisibleProducts(catalog, q.SearchTerm, q.Filters, q.Sort)
}

// VisibleProducts returns the products that match the search term and every
// active filter, ordered by sortKey. Ties keep catalog order.
func (p *Pipeline) VisibleProducts(catalog []models.Product, searchTerm string, filters models.FilterSet, sortKey models.SortKey) []models.Product {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	result := make([]models.Product, 0, len(catalog))
	for _, product := range catalog {
		if term != "" && !matchesSearch(product, term) {
			continue
		}
		if filters.Category != "" && product.Category != filters.Category {
			continue
		}
		if filters.MinPrice != nil && product.Price.LessThan(*filters.MinPrice) {
			continue
		}
		if filters.MaxPrice != nil && product.Price.GreaterThan(*filters.MaxPrice) {
			continue
		}
		if filters.Brand != "" && product.Brand != filters.Brand {
			continue
		}
		result = append(result, product)
	}

	p.sortProducts(result, sortKey)
	return result
}

// matchesSearch reports whether term occurs in name, category or brand.
// term is already lower-cased.
func matchesSearch(product models.Product, term string) bool {
	return strings.Contains(strings.ToLower(product.Name), term) ||
		strings.Contains(strings.ToLower(product.Category), term) ||
		strings.Contains(strings.ToLower(product.Brand), term)
}

// sortProducts orders products in place with a stable sort
func (p *Pipeline) sortProducts(products []models.Product, sortKey models.SortKey) {
	switch sortKey {
	case models.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case models.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case models.SortNameAsc:
		// Collators keep internal buffers, so each call gets its own.
		c := collate.New(p.tag)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) < 0
		})
	case models.SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].RatingOrZero() > products[j].RatingOrZero()
		})
	}
}
