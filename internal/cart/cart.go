package cart

import (
	"time"

	"github.com/ecofinds/marketplace/internal/catalog"
)

type Entry struct {
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Item is a cart entry joined to its listing. Prices are live here: the
// line total uses the listing's current price, never a snapshot. Prices
// only freeze at checkout.
type Item struct {
	ListingID      string         `json:"listing_id"`
	Title          string         `json:"title"`
	Status         catalog.Status `json:"status"`
	PriceCents     int64          `json:"price_cents"`
	Quantity       int            `json:"quantity"`
	LineTotalCents int64          `json:"line_total_cents"`
	AddedAt        time.Time      `json:"added_at"`
}

type View struct {
	Items      []Item `json:"items"`
	TotalCents int64  `json:"total_cents"`
}

// computeTotals fills each line total and returns the grand total.
func computeTotals(items []Item) int64 {
	var total int64
	for i := range items {
		items[i].LineTotalCents = items[i].PriceCents * int64(items[i].Quantity)
		total += items[i].LineTotalCents
	}
	return total
}
