package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyCart = errors.New("cart is empty")

// InvalidQuantityError rejects quantities other than 1: every listing is a
// unique physical item, so there is nothing to sell twice.
type InvalidQuantityError struct {
	ListingID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for listing %s", e.Quantity, e.ListingID)
}

// ConflictError reports cart entries whose listing was sold or removed
// between cart-add and commit. Nothing was mutated; the buyer can drop the
// offending entries and retry.
type ConflictError struct {
	ListingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("listings no longer available: %s", strings.Join(e.ListingIDs, ", "))
}
