package checkout

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ecofinds/marketplace/internal/catalog"
)

func available(title string, price int64) snapshot {
	return snapshot{Exists: true, Title: title, Category: "Sports", PriceCents: price, Status: catalog.StatusAvailable}
}

func TestCheckLines(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		if err := checkLines(nil); !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("got %v, want ErrEmptyCart", err)
		}
	})

	t.Run("quantity above one rejected", func(t *testing.T) {
		err := checkLines([]cartLine{
			{ListingID: "a", Quantity: 1},
			{ListingID: "b", Quantity: 2},
		})
		var iq *InvalidQuantityError
		if !errors.As(err, &iq) {
			t.Fatalf("got %v, want InvalidQuantityError", err)
		}
		if iq.ListingID != "b" || iq.Quantity != 2 {
			t.Errorf("got %+v, want listing b qty 2", iq)
		}
	})

	t.Run("single units pass", func(t *testing.T) {
		if err := checkLines([]cartLine{{ListingID: "a", Quantity: 1}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBuildItems(t *testing.T) {
	t.Run("prices snapshot and total add up", func(t *testing.T) {
		lines := []cartLine{{"bike", 1}, {"lamp", 1}}
		snaps := map[string]snapshot{
			"bike": available("Bike", 5000),
			"lamp": available("IKEA Lamp", 1250),
		}
		items, total, err := buildItems(lines, snaps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 6250 {
			t.Errorf("total = %d, want 6250", total)
		}
		if len(items) != 2 || items[0].Title != "Bike" || items[0].Position != 0 || items[1].Position != 1 {
			t.Errorf("unexpected items: %+v", items)
		}
	})

	t.Run("sold or deleted listings conflict, nothing is built", func(t *testing.T) {
		lines := []cartLine{{"bike", 1}, {"gone", 1}, {"lamp", 1}}
		sold := available("Bike", 5000)
		sold.Status = catalog.StatusSold
		snaps := map[string]snapshot{
			"bike": sold,
			"gone": {Exists: false},
			"lamp": available("IKEA Lamp", 1250),
		}
		items, total, err := buildItems(lines, snaps)
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("got %v, want ConflictError", err)
		}
		if want := []string{"bike", "gone"}; !reflect.DeepEqual(conflict.ListingIDs, want) {
			t.Errorf("conflict ids = %v, want %v", conflict.ListingIDs, want)
		}
		if items != nil || total != 0 {
			t.Errorf("conflict must build nothing, got items=%v total=%d", items, total)
		}
	})

	t.Run("reserved listings are not purchasable", func(t *testing.T) {
		reserved := available("Bike", 5000)
		reserved.Status = catalog.StatusReserved
		_, _, err := buildItems([]cartLine{{"bike", 1}}, map[string]snapshot{"bike": reserved})
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("got %v, want ConflictError", err)
		}
	})
}
