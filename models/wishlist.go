package models

// WishlistActionType names a wishlist transition
type WishlistActionType string

const (
	WishlistActionAdd    WishlistActionType = "ADD_TO_WISHLIST"
	WishlistActionRemove WishlistActionType = "REMOVE_FROM_WISHLIST"
	WishlistActionClear  WishlistActionType = "CLEAR_WISHLIST"
)

// WishlistAction is a tagged wishlist transition. Product is only meaningful
// for add and remove.
type WishlistAction struct {
	Type    WishlistActionType
	Product ProductSnapshot
}

// AddToWishlist builds an add action
func AddToWishlist(p ProductSnapshot) WishlistAction {
	return WishlistAction{Type: WishlistActionAdd, Product: p}
}

// RemoveFromWishlist builds a remove action
func RemoveFromWishlist(p ProductSnapshot) WishlistAction {
	return WishlistAction{Type: WishlistActionRemove, Product: p}
}

// ClearWishlist builds a clear action
func ClearWishlist() WishlistAction {
	return WishlistAction{Type: WishlistActionClear}
}

// WishlistItemRequest represents the request body for adding to the wishlist
type WishlistItemRequest struct {
	ProductID int `json:"productId"`
}

// WishlistResponse represents the response for the wishlist endpoints
type WishlistResponse struct {
	Items []ProductSnapshot `json:"items"`
	Count int               `json:"count"`
}

// WishlistMembershipResponse answers whether a product is in the wishlist
type WishlistMembershipResponse struct {
	ProductID  int  `json:"productId"`
	InWishlist bool `json:"inWishlist"`
}
