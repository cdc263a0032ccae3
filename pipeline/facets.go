package pipeline

import "storefront/models"

// Facets derives the filter options from the full catalog, not a filtered
// subset, so every category and brand stays reachable. Values keep the order
// of first appearance.
func Facets(catalog []models.Product) models.Facets {
	facets := models.Facets{
		Categories: []string{},
		Brands:     []string{},
	}

	seenCategory := make(map[string]bool)
	seenBrand := make(map[string]bool)
	for i, product := range catalog {
		if !seenCategory[product.Category] {
			seenCategory[product.Category] = true
			facets.Categories = append(facets.Categories, product.Category)
		}
		if !seenBrand[product.Brand] {
			seenBrand[product.Brand] = true
			facets.Brands = append(facets.Brands, product.Brand)
		}

		if i == 0 {
			facets.PriceRange = &models.PriceRange{Min: product.Price, Max: product.Price}
			continue
		}
		if product.Price.LessThan(facets.PriceRange.Min) {
			facets.PriceRange.Min = product.Price
		}
		if product.Price.GreaterThan(facets.PriceRange.Max) {
			facets.PriceRange.Max = product.Price
		}
	}

	return facets
}
