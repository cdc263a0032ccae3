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

// WishlistController handles HTTP requests for the wishlist
type WishlistController struct {
	wishlist *store.WishlistStore
	catalog  *store.CatalogStore
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(wishlist *store.WishlistStore, catalog *store.CatalogStore) *WishlistController {
	return &WishlistController{
		wishlist: wishlist,
		catalog:  catalog,
	}
}

// GetWishlist handles GET /wishlist
func (c *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wishlistResponse(c.wishlist.Items()), "GetWishlist")
}

// ClearWishlist handles DELETE /wishlist
func (c *WishlistController) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	c.wishlist.ClearWishlist()
	log.Printf("✅ ClearWishlist: Wishlist cleared")
	writeJSON(w, http.StatusOK, wishlistResponse(c.wishlist.Items()), "ClearWishlist")
}

// AddItem handles POST /wishlist/items
// Example request body: {"productId": 1}
func (c *WishlistController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddWishlistItem: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ AddWishlistItem: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.WishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ AddWishlistItem: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.ProductID <= 0 {
		log.Printf("❌ AddWishlistItem: Invalid productId: %d", req.ProductID)
		http.Error(w, "productId must be greater than 0", http.StatusBadRequest)
		return
	}

	product, err := c.catalog.Product(req.ProductID)
	if err != nil {
		log.Printf("❌ AddWishlistItem: %v", err)
		http.Error(w, fmt.Sprintf("Failed to add product: %v", err), catalogStatusCode(err))
		return
	}

	c.wishlist.AddToWishlist(product)
	writeJSON(w, http.StatusOK, wishlistResponse(c.wishlist.Items()), "AddWishlistItem")
}

// Item handles the per-product routes:
// GET /wishlist/items/{id}, DELETE /wishlist/items/{id}, POST /wishlist/items/{id}/toggle
func (c *WishlistController) Item(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/wishlist/items/")
	if err != nil {
		log.Printf("❌ WishlistItem: Invalid product id in %s", r.URL.Path)
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/wishlist/items/")
	toggle := strings.HasSuffix(path, "/toggle")
	if !toggle && strings.Contains(path, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch {
	case toggle && r.Method == http.MethodPost:
		product, err := c.catalog.Product(id)
		if err != nil {
			log.Printf("❌ ToggleWishlist: %v", err)
			http.Error(w, fmt.Sprintf("Failed to toggle product: %v", err), catalogStatusCode(err))
			return
		}
		in := c.wishlist.ToggleWishlist(product)
		log.Printf("✅ ToggleWishlist: product %d inWishlist=%t", id, in)
		writeJSON(w, http.StatusOK, models.WishlistMembershipResponse{ProductID: id, InWishlist: in}, "ToggleWishlist")

	case !toggle && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, models.WishlistMembershipResponse{
			ProductID:  id,
			InWishlist: c.wishlist.IsInWishlist(id),
		}, "WishlistItem")

	case !toggle && r.Method == http.MethodDelete:
		// Removal only needs the id; the product need not be in a ready catalog
		c.wishlist.RemoveFromWishlist(models.Product{ID: id})
		writeJSON(w, http.StatusOK, wishlistResponse(c.wishlist.Items()), "RemoveWishlistItem")

	default:
		log.Printf("❌ WishlistItem: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
