package models

import "github.com/shopspring/decimal"

// CartLine represents one product's accumulated quantity in the cart
type CartLine struct {
	ProductSnapshot
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for the line
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is an immutable view of the cart emitted after every mutation
type CartSnapshot struct {
	Lines      []CartLine      `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CartItemRequest represents the request body for adding a product to the cart
// Example: {"productId": 1}
type CartItemRequest struct {
	ProductID int `json:"productId"`
}

// CartLineResponse is a cart line with display-formatted amounts
type CartLineResponse struct {
	CartLine
	Subtotal          string `json:"subtotal"`
	SubtotalFormatted string `json:"subtotalFormatted"`
}

// CartResponse represents the response for the cart endpoints
// Example response:
//
//	{
//	  "lines": [{"id": 1, "name": "A", "price": "10", "quantity": 2, "subtotal": "20.00", ...}],
//	  "totalItems": 2,
//	  "totalPrice": "20.00",
//	  "totalPriceFormatted": "$20.00"
//	}
type CartResponse struct {
	Lines               []CartLineResponse `json:"lines"`
	TotalItems          int                `json:"totalItems"`
	TotalPrice          string             `json:"totalPrice"`
	TotalPriceFormatted string             `json:"totalPriceFormatted"`
}
