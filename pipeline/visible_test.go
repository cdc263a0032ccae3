package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/models"
)

func floatPtr(v float64) *float64 { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func product(id int, name, price, category, brand string, rating *float64) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Brand:    brand,
		Rating:   rating,
	}
}

func ids(products []models.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func testCatalog() []models.Product {
	return []models.Product{
		product(1, "Running Shoe", "59.90", "Shoes", "Stride", floatPtr(4.2)),
		product(2, "Trail Shoe", "89.00", "Shoes", "Trailhead", nil),
		product(3, "Cotton Tee", "19.99", "Clothing", "Northwind", floatPtr(4.8)),
		product(4, "Linen Shirt", "45.00", "Clothing", "Indigo", floatPtr(4.2)),
		product(5, "Canvas Bag", "45.00", "Accessories", "Trailhead", floatPtr(3.1)),
		product(6, "Wool Beanie", "14.25", "Accessories", "Northwind", nil),
	}
}

func TestVisibleProducts_Scenario(t *testing.T) {
	catalog := []models.Product{
		product(1, "A", "10", "x", "b1", nil),
		product(2, "B", "5", "y", "b2", nil),
	}

	got := VisibleProducts(catalog, "", models.FilterSet{MinPrice: decPtr("6")}, models.SortPriceLow)
	if diff := cmp.Diff([]int{1}, ids(got)); diff != "" {
		t.Errorf("VisibleProducts() mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleProducts_Filters(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		filters models.FilterSet
		want    []int
	}{
		{"no constraints keeps catalog order", "", models.FilterSet{}, []int{1, 2, 3, 4, 5, 6}},
		{"search matches name case-insensitively", "SHOE", models.FilterSet{}, []int{1, 2}},
		{"search matches category", "access", models.FilterSet{}, []int{5, 6}},
		{"search matches brand", "northwind", models.FilterSet{}, []int{3, 6}},
		{"blank search is ignored", "   ", models.FilterSet{}, []int{1, 2, 3, 4, 5, 6}},
		{"category is exact", "", models.FilterSet{Category: "Clothing"}, []int{3, 4}},
		{"category is case-sensitive", "", models.FilterSet{Category: "clothing"}, []int{}},
		{"brand is exact", "", models.FilterSet{Brand: "Trailhead"}, []int{2, 5}},
		{"min price is inclusive", "", models.FilterSet{MinPrice: decPtr("45")}, []int{1, 2, 4, 5}},
		{"max price is inclusive", "", models.FilterSet{MaxPrice: decPtr("45")}, []int{3, 4, 5, 6}},
		{"price range", "", models.FilterSet{MinPrice: decPtr("15"), MaxPrice: decPtr("50")}, []int{3, 4, 5}},
		{"all constraints are conjunctive", "a", models.FilterSet{Category: "Shoes", Brand: "Trailhead", MaxPrice: decPtr("100")}, []int{2}},
		{"nothing matches", "umbrella", models.FilterSet{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleProducts(testCatalog(), tt.search, tt.filters, models.SortUnsorted)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("VisibleProducts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisibleProducts_Sort(t *testing.T) {
	tests := []struct {
		name string
		sort models.SortKey
		want []int
	}{
		{"unsorted", models.SortUnsorted, []int{1, 2, 3, 4, 5, 6}},
		{"price low keeps ties in catalog order", models.SortPriceLow, []int{6, 3, 4, 5, 1, 2}},
		{"price high keeps ties in catalog order", models.SortPriceHigh, []int{2, 1, 4, 5, 3, 6}},
		{"rating treats missing as zero", models.SortRatingDesc, []int{3, 1, 4, 5, 2, 6}},
		{"name", models.SortNameAsc, []int{5, 3, 4, 1, 2, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleProducts(testCatalog(), "", models.FilterSet{}, tt.sort)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("VisibleProducts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisibleProducts_NameCollation(t *testing.T) {
	catalog := []models.Product{
		product(1, "zebra", "1", "c", "b", nil),
		product(2, "éclair", "1", "c", "b", nil),
		product(3, "Banana", "1", "c", "b", nil),
		product(4, "apple", "1", "c", "b", nil),
	}

	got := New("en").VisibleProducts(catalog, "", models.FilterSet{}, models.SortNameAsc)
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"apple", "Banana", "éclair", "zebra"}, names)
}

func TestVisibleProducts_DoesNotModifyCatalog(t *testing.T) {
	catalog := testCatalog()
	VisibleProducts(catalog, "", models.FilterSet{}, models.SortPriceHigh)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(catalog))
}

func TestVisibleProducts_EmptyCatalog(t *testing.T) {
	got := VisibleProducts(nil, "x", models.FilterSet{}, models.SortNameAsc)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNew_UnknownLocaleFallsBack(t *testing.T) {
	p := New("not a locale!")
	got := p.VisibleProducts(testCatalog(), "", models.FilterSet{}, models.SortNameAsc)
	assert.Len(t, got, 6)
}

func TestQuery_MatchesVisibleProducts(t *testing.T) {
	q := models.ProductQuery{
		SearchTerm: "shoe",
		Filters:    models.FilterSet{MinPrice: decPtr("60")},
		Sort:       models.SortPriceLow,
	}
	got := New(DefaultLocale).Query(testCatalog(), q)
	assert.Equal(t, []int{2}, ids(got))
}

// satisfies is the reference predicate for a product against a query
func satisfies(p models.Product, term string, f models.FilterSet) bool {
	term = strings.ToLower(term)
	if term != "" &&
		!strings.Contains(strings.ToLower(p.Name), term) &&
		!strings.Contains(strings.ToLower(p.Category), term) &&
		!strings.Contains(strings.ToLower(p.Brand), term) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func TestVisibleProductsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	catalog := testCatalog()

	properties.Property("a product is visible iff it satisfies every constraint", prop.ForAll(
		func(term, category, brand string, minPrice, maxPrice int) bool {
			filters := models.FilterSet{Category: category, Brand: brand}
			if minPrice >= 0 {
				d := decimal.NewFromInt(int64(minPrice))
				filters.MinPrice = &d
			}
			if maxPrice >= 0 {
				d := decimal.NewFromInt(int64(maxPrice))
				filters.MaxPrice = &d
			}

			visible := map[int]bool{}
			for _, p := range VisibleProducts(catalog, term, filters, models.SortUnsorted) {
				visible[p.ID] = true
			}
			for _, p := range catalog {
				if visible[p.ID] != satisfies(p, term, filters) {
					return false
				}
			}
			return true
		},
		gen.OneConstOf("", "shoe", "NORTH", "e", "xyz"),
		gen.OneConstOf("", "Shoes", "Clothing", "Accessories"),
		gen.OneConstOf("", "Trailhead", "Northwind", "Stride", "Indigo"),
		gen.IntRange(-1, 100),
		gen.IntRange(-1, 100),
	))

	properties.Property("sorting keeps catalog order for ties", prop.ForAll(
		func(sortKey models.SortKey) bool {
			got := ids(VisibleProducts(catalog, "", models.FilterSet{}, sortKey))
			pos := map[int]int{}
			for i, id := range got {
				pos[id] = i
			}
			// products 4 and 5 share a price (and product 1 and 4 a rating)
			switch sortKey {
			case models.SortPriceLow, models.SortPriceHigh:
				return pos[4] < pos[5]
			case models.SortRatingDesc:
				return pos[1] < pos[4]
			}
			return true
		},
		gen.OneConstOf(models.SortPriceLow, models.SortPriceHigh, models.SortRatingDesc),
	))

	properties.TestingRun(t)
}
