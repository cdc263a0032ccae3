package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"storefront/models"
	"storefront/service"
	"storefront/store"
)

// ImageController serves optimized product images
type ImageController struct {
	catalog *store.CatalogStore
	images  service.ImageServiceInterface
}

// NewImageController creates a new ImageController
func NewImageController(catalog *store.CatalogStore, images service.ImageServiceInterface) *ImageController {
	return &ImageController{
		catalog: catalog,
		images:  images,
	}
}

// GetProductImage handles GET /products/{id}/image?size=thumb|medium&index=N
func (c *ImageController) GetProductImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetProductImage: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := idFromPath(r.URL.Path, "/products/")
	if err != nil {
		log.Printf("❌ GetProductImage: Invalid product id in %s", r.URL.Path)
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	index := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("index")); raw != "" {
		index, err = strconv.Atoi(raw)
		if err != nil || index < 0 {
			log.Printf("❌ GetProductImage: Invalid index: %s", raw)
			http.Error(w, "Invalid image index", http.StatusBadRequest)
			return
		}
	}
	size := service.NormalizeImageSize(r.URL.Query().Get("size"))

	product, err := c.catalog.Product(id)
	if err != nil {
		log.Printf("❌ GetProductImage: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get product: %v", err), catalogStatusCode(err))
		return
	}

	data, err := c.images.ProductImage(r.Context(), product, index, size)
	if err != nil {
		log.Printf("❌ GetProductImage: product=%d index=%d: %v", id, index, err)
		if errors.Is(err, models.ErrInvalidInput) {
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load image: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetProductImage: Error writing image: %v", err)
	}
}
