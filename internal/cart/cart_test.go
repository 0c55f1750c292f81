package cart

import "testing"

func TestComputeTotals(t *testing.T) {
	t.Run("empty cart totals zero", func(t *testing.T) {
		if got := computeTotals(nil); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})

	t.Run("grand total is sum of price times quantity", func(t *testing.T) {
		items := []Item{
			{ListingID: "a", PriceCents: 2999, Quantity: 1},
			{ListingID: "b", PriceCents: 1250, Quantity: 3},
			{ListingID: "c", PriceCents: 6500, Quantity: 2},
		}
		got := computeTotals(items)
		want := int64(2999 + 3*1250 + 2*6500)
		if got != want {
			t.Errorf("grand total = %d, want %d", got, want)
		}
		if items[1].LineTotalCents != 3750 {
			t.Errorf("line total = %d, want 3750", items[1].LineTotalCents)
		}
	})

	t.Run("totals track current prices after edits", func(t *testing.T) {
		items := []Item{{ListingID: "a", PriceCents: 5000, Quantity: 1}}
		before := computeTotals(items)

		// seller edits the price; pre-checkout views always reprice
		items[0].PriceCents = 4000
		after := computeTotals(items)

		if before != 5000 || after != 4000 {
			t.Errorf("before=%d after=%d, want 5000 then 4000", before, after)
		}
	})
}
