// Package history is the read model over completed orders. Orders are
// written only by the checkout engine; nothing here mutates.
package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecofinds/marketplace/internal/checkout"
)

type Repo struct{ DB *pgxpool.Pool }

// List returns a buyer's orders oldest first, each with its line items in
// commit order.
func (r *Repo) List(ctx context.Context, buyerID string) ([]checkout.Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, buyer_id, total_cents, created_at
		FROM orders WHERE buyer_id=$1
		ORDER BY created_at ASC, id`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []checkout.Order
	index := map[string]int{}
	for rows.Next() {
		var o checkout.Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Items = []checkout.OrderItem{}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	orderIDs := make([]string, 0, len(out))
	for _, o := range out {
		orderIDs = append(orderIDs, o.ID)
	}
	itemRows, err := r.DB.Query(ctx, `
		SELECT id, order_id, listing_id, title, category, image_url, price_cents, quantity, position
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it checkout.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ListingID, &it.Title, &it.Category,
			&it.ImageURL, &it.PriceCents, &it.Quantity, &it.Position); err != nil {
			return nil, err
		}
		i := index[it.OrderID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, itemRows.Err()
}
