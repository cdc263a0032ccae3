package router

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"storefront/app/controller"
)

type Controllers struct {
	Product  *controller.ProductController
	Cart     *controller.CartController
	Wishlist *controller.WishlistController
	Image    *controller.ImageController
	Export   *controller.ExportController
	Warm     *controller.WarmController
	Events   *controller.EventsController

	// ExportLimiter throttles /export, which drives headless Chrome; nil means unlimited
	ExportLimiter *rate.Limiter
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Catalog routes
	mux.HandleFunc("/catalog", controllers.Product.GetCatalog)
	mux.HandleFunc("/products", controllers.Product.ListProducts)
	mux.HandleFunc("/facets", controllers.Product.GetFacets)

	// Product by id and its images
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/image") {
			controllers.Image.GetProductImage(w, r)
			return
		}
		controllers.Product.GetProduct(w, r)
	})

	// Cart routes
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Cart.GetCart(w, r)
		} else if r.Method == http.MethodDelete {
			controllers.Cart.ClearCart(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/cart/items", controllers.Cart.AddItem)
	// DELETE /cart/items/:id, POST /cart/items/:id/increase, POST /cart/items/:id/decrease
	mux.HandleFunc("/cart/items/", controllers.Cart.UpdateItem)

	// Wishlist routes
	mux.HandleFunc("/wishlist", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Wishlist.GetWishlist(w, r)
		} else if r.Method == http.MethodDelete {
			controllers.Wishlist.ClearWishlist(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/wishlist/items", controllers.Wishlist.AddItem)
	// GET|DELETE /wishlist/items/:id, POST /wishlist/items/:id/toggle
	mux.HandleFunc("/wishlist/items/", controllers.Wishlist.Item)

	// Export routes
	// /export/render stays unthrottled: Chrome loads it while serving /export
	mux.HandleFunc("/export", limit(controllers.ExportLimiter, controllers.Export.Export))
	mux.HandleFunc("/export/render", controllers.Export.Render)
	mux.HandleFunc("/export/png-page", controllers.Export.DownloadPNGPage)

	// Server-sent events
	mux.HandleFunc("/events", controllers.Events.Stream)

	// Admin routes
	mux.HandleFunc("/admin/images/warm", controllers.Warm.WarmImages)
}
