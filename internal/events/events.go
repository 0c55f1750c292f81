package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCompleted = "OrderCompleted"
	EventListingSold    = "ListingSold"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type SoldItem struct {
	ListingID  string `json:"listing_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
}

type OrderCompletedPayload struct {
	OrderID    string     `json:"order_id"`
	BuyerID    string     `json:"buyer_id"`
	Items      []SoldItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

type ListingSoldPayload struct {
	ListingID  string `json:"listing_id"`
	OrderID    string `json:"order_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
}
