package models

import "github.com/shopspring/decimal"

// Review represents a customer review attached to a product
type Review struct {
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// Product represents a single record of the static catalog.
// Price is the price actually charged; Discount only drives display.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Rating      *float64        `json:"rating,omitempty"`
	Discount    *float64        `json:"discount,omitempty"` // Percentage (e.g. 20 = 20% off)
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	Reviews     []Review        `json:"reviews,omitempty"`
}

// Catalog is the document shape of the catalog source
type Catalog struct {
	Products []Product `json:"products"`
}

// RatingOrZero returns the rating, treating a missing rating as 0
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// ReviewCount returns the number of reviews attached to the product
func (p Product) ReviewCount() int {
	return len(p.Reviews)
}

// AllImages returns the main image followed by the gallery images
func (p Product) AllImages() []string {
	images := make([]string, 0, len(p.Images)+1)
	if p.Image != "" {
		images = append(images, p.Image)
	}
	return append(images, p.Images...)
}

// OriginalPrice returns the pre-discount price used for strike-through display.
// Without a usable discount it is the regular price.
func (p Product) OriginalPrice() decimal.Decimal {
	if p.Discount == nil || *p.Discount <= 0 || *p.Discount >= 100 {
		return p.Price
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(*p.Discount).Div(decimal.NewFromInt(100)))
	return p.Price.Div(factor).Round(2)
}

// Snapshot copies the display fields of the product
func (p Product) Snapshot() ProductSnapshot {
	s := ProductSnapshot{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Brand:    p.Brand,
		Image:    p.Image,
	}
	if p.Rating != nil {
		rating := *p.Rating
		s.Rating = &rating
	}
	if p.Discount != nil {
		discount := *p.Discount
		s.Discount = &discount
	}
	return s
}

// ProductSnapshot is a denormalized copy of product display fields taken when
// the product is added to the cart or the wishlist
type ProductSnapshot struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
	Image    string          `json:"image"`
	Rating   *float64        `json:"rating,omitempty"`
	Discount *float64        `json:"discount,omitempty"`
}
