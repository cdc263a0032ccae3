package controller

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"storefront/models"
	"storefront/pipeline"
	"storefront/store"
)

// ProductController handles HTTP requests for catalog browsing
type ProductController struct {
	catalog  *store.CatalogStore
	pipeline *pipeline.Pipeline
}

// NewProductController creates a new ProductController
func NewProductController(catalog *store.CatalogStore, p *pipeline.Pipeline) *ProductController {
	return &ProductController{
		catalog:  catalog,
		pipeline: p,
	}
}

// GetCatalog handles GET /catalog
// Returns the catalog lifecycle state without the product list
func (c *ProductController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetCatalog: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := c.catalog.State()
	response := struct {
		Status  models.CatalogStatus `json:"status"`
		Count   int                  `json:"count"`
		Message string               `json:"message,omitempty"`
	}{
		Status:  state.Status,
		Count:   len(state.Products),
		Message: state.Message,
	}
	writeJSON(w, http.StatusOK, response, "GetCatalog")
}

// writeNotReady answers a request that needs a ready catalog
func (c *ProductController) writeNotReady(w http.ResponseWriter, op string) {
	state := c.catalog.State()
	log.Printf("⚠️  %s: catalog is %s", op, state.Status)
	writeJSON(w, http.StatusServiceUnavailable, state, op)
}

// ListProducts handles GET /products?search=&category=&brand=&minPrice=&maxPrice=&sort=
func (c *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListProducts: Received %s request to %s", r.Method, r.URL.String())

	if r.Method != http.MethodGet {
		log.Printf("❌ ListProducts: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := c.catalog.Products()
	if err != nil {
		c.writeNotReady(w, "ListProducts")
		return
	}

	query := productQueryFromRequest(r)
	visible := c.pipeline.Query(products, query)

	log.Printf("✅ ListProducts: %d of %d products visible (search=%q sort=%q)",
		len(visible), len(products), query.SearchTerm, query.Sort)

	writeJSON(w, http.StatusOK, models.ProductListResponse{
		Products: visible,
		Count:    len(visible),
		Search:   query.SearchTerm,
		Sort:     query.Sort,
	}, "ListProducts")
}

// GetProduct handles GET /products/{id}
func (c *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetProduct: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/products/")
	if strings.Contains(path, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	id, err := idFromPath(r.URL.Path, "/products/")
	if err != nil {
		log.Printf("❌ GetProduct: Invalid product id: %s", path)
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	product, err := c.catalog.Product(id)
	if err != nil {
		log.Printf("❌ GetProduct: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get product: %v", err), catalogStatusCode(err))
		return
	}

	response := struct {
		models.Product
		ReviewCount   int    `json:"reviewCount"`
		OriginalPrice string `json:"originalPrice"`
	}{
		Product:       product,
		ReviewCount:   product.ReviewCount(),
		OriginalPrice: product.OriginalPrice().StringFixed(2),
	}
	writeJSON(w, http.StatusOK, response, "GetProduct")
}

// GetFacets handles GET /facets
// Returns categories, brands and price range over the full catalog
func (c *ProductController) GetFacets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetFacets: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := c.catalog.Products()
	if err != nil {
		c.writeNotReady(w, "GetFacets")
		return
	}

	writeJSON(w, http.StatusOK, pipeline.Facets(products), "GetFacets")
}
