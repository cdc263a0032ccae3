package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/models"
)

// validSortKeys is a map of accepted sort values
var validSortKeys = map[models.SortKey]bool{
	models.SortUnsorted:   true,
	models.SortPriceLow:   true,
	models.SortPriceHigh:  true,
	models.SortNameAsc:    true,
	models.SortRatingDesc: true,
}

// ParseSortKey normalizes a sort value. Unknown keys mean unsorted.
func ParseSortKey(raw string) models.SortKey {
	key := models.SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if !validSortKeys[key] {
		return models.SortUnsorted
	}
	return key
}

// ParsePriceBound parses a price filter bound. Empty, non-numeric or negative
// values are treated as absent.
func ParsePriceBound(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

// ParseFilterSet builds a FilterSet from raw UI values
func ParseFilterSet(category, brand, minPrice, maxPrice string) models.FilterSet {
	return models.FilterSet{
		Category: strings.TrimSpace(category),
		Brand:    strings.TrimSpace(brand),
		MinPrice: ParsePriceBound(minPrice),
		MaxPrice: ParsePriceBound(maxPrice),
	}
}

// ParseProductQuery builds a full pipeline query from raw UI values
func ParseProductQuery(search, category, brand, minPrice, maxPrice, sort string) models.ProductQuery {
	return models.ProductQuery{
		SearchTerm: strings.TrimSpace(search),
		Filters:    ParseFilterSet(category, brand, minPrice, maxPrice),
		Sort:       ParseSortKey(sort),
	}
}

// ParseProductID parses a positive product identifier
func ParseProductID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, models.ErrInvalidInput
	}
	return id, nil
}
