package models

// EventTopic identifies which store emitted a change event
type EventTopic string

const (
	TopicCatalog  EventTopic = "catalog"
	TopicCart     EventTopic = "cart"
	TopicWishlist EventTopic = "wishlist"
)

// ChangeEvent is pushed to presentation subscribers after a store changes
type ChangeEvent struct {
	Topic EventTopic  `json:"topic"`
	Data  interface{} `json:"data"`
}
