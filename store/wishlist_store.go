package store

import (
	"log"
	"slices"
	"sync"

	"storefront/models"
)

// WishlistStore holds the session wishlist. It is never persisted.
type WishlistStore struct {
	mu    sync.Mutex
	items []models.ProductSnapshot

	subs subscribers[[]models.ProductSnapshot]
}

// NewWishlistStore creates an empty WishlistStore
func NewWishlistStore() *WishlistStore {
	return &WishlistStore{items: []models.ProductSnapshot{}}
}

// Dispatch applies action through ReduceWishlist and notifies listeners when
// the wishlist changed. Returns the resulting items.
func (s *WishlistStore) Dispatch(action models.WishlistAction) []models.ProductSnapshot {
	return s.apply(func([]models.ProductSnapshot) models.WishlistAction { return action })
}

// apply picks an action against the current items and reduces it under one lock
func (s *WishlistStore) apply(choose func([]models.ProductSnapshot) models.WishlistAction) []models.ProductSnapshot {
	s.mu.Lock()
	prev := s.items
	action := choose(prev)
	next := ReduceWishlist(prev, action)
	changed := len(next) != len(prev)
	s.items = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	if changed {
		log.Printf("💜 WishlistStore: %s -> %d items", action.Type, len(snapshot))
		s.subs.notify(slices.Clone(snapshot))
	}
	return snapshot
}

// AddToWishlist adds a snapshot of product; adding twice is a no-op
func (s *WishlistStore) AddToWishlist(product models.Product) {
	s.Dispatch(models.AddToWishlist(product.Snapshot()))
}

// RemoveFromWishlist removes the entry matching product.ID if present
func (s *WishlistStore) RemoveFromWishlist(product models.Product) {
	s.Dispatch(models.RemoveFromWishlist(models.ProductSnapshot{ID: product.ID}))
}

// ClearWishlist empties the wishlist
func (s *WishlistStore) ClearWishlist() {
	s.Dispatch(models.ClearWishlist())
}

// ToggleWishlist removes product if present and adds it otherwise.
// Returns whether product is in the wishlist afterwards.
func (s *WishlistStore) ToggleWishlist(product models.Product) bool {
	items := s.apply(func(current []models.ProductSnapshot) models.WishlistAction {
		if containsProduct(current, product.ID) {
			return models.RemoveFromWishlist(models.ProductSnapshot{ID: product.ID})
		}
		return models.AddToWishlist(product.Snapshot())
	})
	return containsProduct(items, product.ID)
}

// IsInWishlist reports whether productID is in the wishlist
func (s *WishlistStore) IsInWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsProduct(s.items, productID)
}

// Items returns the wishlist in insertion order
func (s *WishlistStore) Items() []models.ProductSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Subscribe registers fn to receive the items after every change
func (s *WishlistStore) Subscribe(fn func([]models.ProductSnapshot)) func() {
	return s.subs.add(fn)
}
