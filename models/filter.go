package models

import "github.com/shopspring/decimal"

// SortKey enumerates the orderings offered by the product list
type SortKey string

const (
	SortUnsorted   SortKey = ""
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortNameAsc    SortKey = "name"
	SortRatingDesc SortKey = "rating"
)

// FilterSet represents optional structured filters. Nil or empty fields impose
// no constraint.
type FilterSet struct {
	Category string
	Brand    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ProductQuery bundles every input of the visible-products derivation
type ProductQuery struct {
	SearchTerm string
	Filters    FilterSet
	Sort       SortKey
}

// PriceRange represents the minimum and maximum price in the catalog
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Facets represents the filter options offered to the product list
type Facets struct {
	Categories []string    `json:"categories"`
	Brands     []string    `json:"brands"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
}

// ProductListResponse represents the response for the product list endpoint
type ProductListResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Search   string    `json:"search,omitempty"`
	Sort     SortKey   `json:"sort,omitempty"`
}
