package receipt

import "time"

// Receipt records an order this storefront submitted, keyed by the
// idempotency key the submission carried.
type Receipt struct {
	IdempotencyKey string    `json:"idempotency_key"`
	SessionID      string    `json:"session_id"`
	OrderID        string    `json:"order_id"`
	RestaurantID   string    `json:"restaurant_id,omitempty"`
	TableID        string    `json:"table_id"`
	CustomerName   string    `json:"customer_name"`
	Status         string    `json:"status"`
	TotalAmount    float64   `json:"total_amount"`
	ItemCount      int       `json:"item_count"`
	CreatedAt      time.Time `json:"created_at"`
}
