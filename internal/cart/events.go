package cart

import "time"

// Analytics event types emitted on cart mutations.
const (
	EventItemAdded   = "cart_item_added"
	EventItemRemoved = "cart_item_removed"
	EventQuantitySet = "cart_quantity_set"
	EventCleared     = "cart_cleared"
)

type ItemAdded struct {
	SessionID  string    `json:"session_id"`
	ProductID  string    `json:"product_id"`
	PriceCents int       `json:"price_cents"`
	Source     string    `json:"source"`
	Total      int       `json:"total"`
	AddedAt    time.Time `json:"added_at"`
}

type ItemRemoved struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Total     int       `json:"total"`
	RemovedAt time.Time `json:"removed_at"`
}

type QuantitySet struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Total     int       `json:"total"`
	SetAt     time.Time `json:"set_at"`
}

type Cleared struct {
	SessionID string    `json:"session_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
