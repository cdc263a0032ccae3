package controller

import (
	"fmt"
	"log"
	"net/http"

	"storefront/service"
	"storefront/store"
)

// WarmController handles HTTP requests for image cache warm-up
type WarmController struct {
	catalog *store.CatalogStore
	warm    service.WarmServiceInterface
}

// NewWarmController creates a new WarmController
func NewWarmController(catalog *store.CatalogStore, warm service.WarmServiceInterface) *WarmController {
	return &WarmController{
		catalog: catalog,
		warm:    warm,
	}
}

// WarmImages handles POST /admin/images/warm?size=thumb&size=medium
// Optimizes and caches every product image; without size both variants are warmed
func (c *WarmController) WarmImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := c.catalog.Products()
	if err != nil {
		log.Printf("⚠️  WarmImages: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, c.catalog.State(), "WarmImages")
		return
	}

	sizes := r.URL.Query()["size"]
	log.Printf("📥 Warm request received: %d products, sizes=%v", len(products), sizes)

	result, err := c.warm.WarmImages(r.Context(), products, sizes)
	if err != nil {
		log.Printf("❌ Warm-up failed: %v", err)
		http.Error(w, fmt.Sprintf("Failed to warm images: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result, "WarmImages")
	log.Printf("✅ Warm request completed: %d/%d images generated", result.Generated, result.Total)
}
