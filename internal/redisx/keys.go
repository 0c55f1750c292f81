package redisx

import "time"

const (
	// Cache of a listing detail response: listing:{listing_id} -> JSON.
	// Invalidated on edit, delete and sale.
	KeyListing = "listing:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Rolling feed of recently sold listings (LPUSH + LTRIM).
	KeyRecentSales = "sales:recent"
)

var (
	TTLListing = 5 * time.Minute
	TTLDedup   = 48 * time.Hour

	RecentSalesMax int64 = 100
)
