package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront/models"
	"storefront/utils"
)

// writeJSON encodes v as the JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}, op string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ %s: Error encoding response: %v", op, err)
	}
}

// catalogStatusCode maps catalog lookup errors to HTTP status codes
func catalogStatusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrCatalogNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// idFromPath extracts the product id segment that follows prefix,
// e.g. "/cart/items/12/increase" with prefix "/cart/items/" yields 12
func idFromPath(path, prefix string) (int, error) {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	return utils.ParseProductID(rest)
}

// productQueryFromRequest reads the pipeline inputs from the query string
func productQueryFromRequest(r *http.Request) models.ProductQuery {
	q := r.URL.Query()
	return utils.ParseProductQuery(
		q.Get("search"),
		q.Get("category"),
		q.Get("brand"),
		q.Get("minPrice"),
		q.Get("maxPrice"),
		q.Get("sort"),
	)
}

// cartResponse converts a cart snapshot into its API representation
func cartResponse(snapshot models.CartSnapshot) models.CartResponse {
	lines := make([]models.CartLineResponse, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		subtotal := utils.RoundPrice(line.Subtotal())
		lines[i] = models.CartLineResponse{
			CartLine:          line,
			Subtotal:          subtotal.StringFixed(2),
			SubtotalFormatted: utils.FormatPrice(subtotal),
		}
	}
	return models.CartResponse{
		Lines:               lines,
		TotalItems:          snapshot.TotalItems,
		TotalPrice:          snapshot.TotalPrice.StringFixed(2),
		TotalPriceFormatted: utils.FormatPrice(snapshot.TotalPrice),
	}
}

// wishlistResponse converts wishlist items into their API representation
func wishlistResponse(items []models.ProductSnapshot) models.WishlistResponse {
	if items == nil {
		items = []models.ProductSnapshot{}
	}
	return models.WishlistResponse{Items: items, Count: len(items)}
}
