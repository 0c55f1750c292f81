package checkout

import "time"

// Order is immutable once created. Item prices are snapshots taken at
// commit time; later listing edits never change them.
type Order struct {
	ID         string      `json:"id"`
	BuyerID    string      `json:"buyer_id"`
	Items      []OrderItem `json:"items"`
	TotalCents int64       `json:"total_cents"`
	CreatedAt  time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	ListingID  string `json:"listing_id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	ImageURL   string `json:"image_url"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Position   int    `json:"position"`
}
