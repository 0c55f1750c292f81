package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecofinds/marketplace/internal/catalog"
)

// Engine turns a user's cart into an order. Commit is the only write path
// that moves listings to SOLD.
type Engine struct{ DB *pgxpool.Pool }

// Commit consumes the caller's entire cart in one transaction:
// lock every listing (ascending id, so concurrent commits cannot
// deadlock), re-validate availability, snapshot prices, create the order,
// mark the listings SOLD and clear the cart. On any failure the
// transaction rolls back and the cart is untouched.
func (e *Engine) Commit(ctx context.Context, buyerID string) (*Order, error) {
	tx, err := e.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lines, err := readCart(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}
	if err := checkLines(lines); err != nil {
		return nil, err
	}

	// lines come back ordered by listing id, which fixes the lock order
	snaps := make(map[string]snapshot, len(lines))
	for _, ln := range lines {
		var s snapshot
		err := tx.QueryRow(ctx, `
			SELECT title, category, image_url, price_cents, status
			FROM listings WHERE id=$1 FOR UPDATE`, ln.ListingID).
			Scan(&s.Title, &s.Category, &s.ImageURL, &s.PriceCents, &s.Status)
		if errors.Is(err, pgx.ErrNoRows) {
			snaps[ln.ListingID] = snapshot{Exists: false}
			continue
		}
		if err != nil {
			return nil, err
		}
		s.Exists = true
		snaps[ln.ListingID] = s
	}

	items, total, err := buildItems(lines, snaps)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &Order{
		ID:         uuid.NewString(),
		BuyerID:    buyerID,
		TotalCents: total,
		CreatedAt:  now,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, buyer_id, total_cents, created_at)
		VALUES ($1,$2,$3,$4)`,
		order.ID, order.BuyerID, order.TotalCents, order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].OrderID = order.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, listing_id, title, category, image_url, price_cents, quantity, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			items[i].ID, items[i].OrderID, items[i].ListingID, items[i].Title, items[i].Category,
			items[i].ImageURL, items[i].PriceCents, items[i].Quantity, items[i].Position,
		)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `UPDATE listings SET status=$2, updated_at=$3 WHERE id=$1`,
			items[i].ListingID, catalog.StatusSold, now)
		if err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_entries WHERE user_id=$1`, buyerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func readCart(ctx context.Context, tx pgx.Tx, userID string) ([]cartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT listing_id, quantity FROM cart_entries
		WHERE user_id=$1 ORDER BY listing_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var ln cartLine
		if err := rows.Scan(&ln.ListingID, &ln.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}
