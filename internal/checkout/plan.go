package checkout

import (
	"sort"

	"github.com/ecofinds/marketplace/internal/catalog"
)

// cartLine is one cart entry as read inside the commit transaction.
type cartLine struct {
	ListingID string
	Quantity  int
}

// snapshot is what the commit sees of a listing after locking its row.
// Exists is false when the listing was deleted since it entered the cart.
type snapshot struct {
	Exists     bool
	Title      string
	Category   string
	ImageURL   string
	PriceCents int64
	Status     catalog.Status
}

// checkLines enforces the preconditions that need no listing data: a
// non-empty cart and the single-physical-item quantity policy.
func checkLines(lines []cartLine) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, ln := range lines {
		if ln.Quantity != 1 {
			return &InvalidQuantityError{ListingID: ln.ListingID, Quantity: ln.Quantity}
		}
	}
	return nil
}

// buildItems prices out the cart against the locked listing snapshots. If
// any listing is missing or no longer AVAILABLE the whole build fails with
// a ConflictError naming every offending listing.
func buildItems(lines []cartLine, snaps map[string]snapshot) ([]OrderItem, int64, error) {
	var conflicts []string
	for _, ln := range lines {
		s, ok := snaps[ln.ListingID]
		if !ok || !s.Exists || s.Status != catalog.StatusAvailable {
			conflicts = append(conflicts, ln.ListingID)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, 0, &ConflictError{ListingIDs: conflicts}
	}

	items := make([]OrderItem, 0, len(lines))
	var total int64
	for i, ln := range lines {
		s := snaps[ln.ListingID]
		items = append(items, OrderItem{
			ListingID:  ln.ListingID,
			Title:      s.Title,
			Category:   s.Category,
			ImageURL:   s.ImageURL,
			PriceCents: s.PriceCents,
			Quantity:   ln.Quantity,
			Position:   i,
		})
		total += s.PriceCents * int64(ln.Quantity)
	}
	return items, total, nil
}
