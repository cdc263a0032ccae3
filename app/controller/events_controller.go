package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"storefront/models"
	"storefront/store"
)

// eventBuffer bounds queued events per client; slow clients drop events
const eventBuffer = 32

// heartbeatInterval keeps idle connections open through proxies
const heartbeatInterval = 15 * time.Second

// catalogEvent is the catalog payload; products are fetched from /products
type catalogEvent struct {
	Status  models.CatalogStatus `json:"status"`
	Count   int                  `json:"count"`
	Message string               `json:"message,omitempty"`
}

// EventsController streams store changes as server-sent events
type EventsController struct {
	catalog  *store.CatalogStore
	cart     *store.CartStore
	wishlist *store.WishlistStore
}

// NewEventsController creates a new EventsController
func NewEventsController(catalog *store.CatalogStore, cart *store.CartStore, wishlist *store.WishlistStore) *EventsController {
	return &EventsController{
		catalog:  catalog,
		cart:     cart,
		wishlist: wishlist,
	}
}

// Stream handles GET /events
// Sends the current catalog (once settled), cart and wishlist, then every change.
func (c *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ Events: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	events := make(chan models.ChangeEvent, eventBuffer)
	push := func(ev models.ChangeEvent) {
		select {
		case events <- ev:
		default:
			log.Printf("⚠️  Events: client too slow, dropping %s event", ev.Topic)
		}
	}

	unsubCart := c.cart.Subscribe(func(s models.CartSnapshot) {
		push(models.ChangeEvent{Topic: models.TopicCart, Data: cartResponse(s)})
	})
	defer unsubCart()
	unsubWishlist := c.wishlist.Subscribe(func(items []models.ProductSnapshot) {
		push(models.ChangeEvent{Topic: models.TopicWishlist, Data: wishlistResponse(items)})
	})
	defer unsubWishlist()
	unsubCatalog := c.catalog.Subscribe(func(s models.CatalogState) {
		push(models.ChangeEvent{Topic: models.TopicCatalog, Data: catalogEvent{
			Status:  s.Status,
			Count:   len(s.Products),
			Message: s.Message,
		}})
	})
	defer unsubCatalog()

	push(models.ChangeEvent{Topic: models.TopicCart, Data: cartResponse(c.cart.Snapshot())})
	push(models.ChangeEvent{Topic: models.TopicWishlist, Data: wishlistResponse(c.wishlist.Items())})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Printf("📡 Events: client connected from %s", r.RemoteAddr)
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("📡 Events: client disconnected from %s", r.RemoteAddr)
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev := <-events:
			data, err := json.Marshal(ev.Data)
			if err != nil {
				log.Printf("❌ Events: Error encoding %s event: %v", ev.Topic, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
