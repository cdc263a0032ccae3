package router

import (
	"log"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// WithCORS lets browser storefronts served from origins call the API.
// An empty origins list allows any origin.
func WithCORS(next http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	})
	return c.Handler(next)
}

// limit answers 429 once limiter has no tokens left. A nil limiter disables it.
func limit(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			log.Printf("⚠️  Rate limit exceeded: %s %s", r.Method, r.URL.Path)
			w.Header().Set("Retry-After", "2")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
