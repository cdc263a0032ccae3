package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"storefront/models"
	"storefront/store"
)

// CartController handles HTTP requests for the shopping cart
type CartController struct {
	cart    *store.CartStore
	catalog *store.CatalogStore
}

// NewCartController creates a new CartController
func NewCartController(cart *store.CartStore, catalog *store.CatalogStore) *CartController {
	return &CartController{
		cart:    cart,
		catalog: catalog,
	}
}

// GetCart handles GET /cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartResponse(c.cart.Snapshot()), "GetCart")
}

// ClearCart handles DELETE /cart
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ClearCart: Received %s request to %s", r.Method, r.URL.Path)
	c.cart.ClearCart(r.Context())
	log.Printf("✅ ClearCart: Cart cleared")
	writeJSON(w, http.StatusOK, cartResponse(c.cart.Snapshot()), "ClearCart")
}

// AddItem handles POST /cart/items
// Example request body: {"productId": 1}
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddItem: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ AddItem: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ AddItem: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.ProductID <= 0 {
		log.Printf("❌ AddItem: Invalid productId: %d", req.ProductID)
		http.Error(w, "productId must be greater than 0", http.StatusBadRequest)
		return
	}

	product, err := c.catalog.Product(req.ProductID)
	if err != nil {
		log.Printf("❌ AddItem: %v", err)
		http.Error(w, fmt.Sprintf("Failed to add product: %v", err), catalogStatusCode(err))
		return
	}

	c.cart.AddToCart(r.Context(), product)
	log.Printf("✅ AddItem: Added product %d, quantity now %d", product.ID, c.cart.Quantity(product.ID))

	writeJSON(w, http.StatusOK, cartResponse(c.cart.Snapshot()), "AddItem")
}

// UpdateItem handles the per-line routes:
// DELETE /cart/items/{id}, POST /cart/items/{id}/increase, POST /cart/items/{id}/decrease
// Unknown ids are a no-op and still return the cart.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateItem: Received %s request to %s", r.Method, r.URL.Path)

	id, err := idFromPath(r.URL.Path, "/cart/items/")
	if err != nil {
		log.Printf("❌ UpdateItem: Invalid product id in %s", r.URL.Path)
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	switch {
	case strings.HasSuffix(path, "/increase") && r.Method == http.MethodPost:
		c.cart.IncreaseQuantity(r.Context(), id)
	case strings.HasSuffix(path, "/decrease") && r.Method == http.MethodPost:
		c.cart.DecreaseQuantity(r.Context(), id)
	case !strings.Contains(path, "/") && r.Method == http.MethodDelete:
		c.cart.RemoveFromCart(r.Context(), id)
	case strings.HasSuffix(path, "/increase"), strings.HasSuffix(path, "/decrease"), !strings.Contains(path, "/"):
		log.Printf("❌ UpdateItem: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	log.Printf("✅ UpdateItem: product %d quantity now %d", id, c.cart.Quantity(id))
	writeJSON(w, http.StatusOK, cartResponse(c.cart.Snapshot()), "UpdateItem")
}
