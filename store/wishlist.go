package store

import (
	"slices"

	"storefront/models"
)

// ReduceWishlist applies action to state and returns the next state.
// It never modifies state; a no-op returns state itself.
func ReduceWishlist(state []models.ProductSnapshot, action models.WishlistAction) []models.ProductSnapshot {
	switch action.Type {
	case models.WishlistActionAdd:
		if containsProduct(state, action.Product.ID) {
			return state
		}
		next := make([]models.ProductSnapshot, 0, len(state)+1)
		next = append(next, state...)
		return append(next, action.Product)

	case models.WishlistActionRemove:
		if !containsProduct(state, action.Product.ID) {
			return state
		}
		next := make([]models.ProductSnapshot, 0, len(state)-1)
		for _, item := range state {
			if item.ID != action.Product.ID {
				next = append(next, item)
			}
		}
		return next

	case models.WishlistActionClear:
		return []models.ProductSnapshot{}

	default:
		return state
	}
}

func containsProduct(state []models.ProductSnapshot, productID int) bool {
	return slices.ContainsFunc(state, func(item models.ProductSnapshot) bool {
		return item.ID == productID
	})
}
