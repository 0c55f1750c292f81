package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecofinds/marketplace/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

// Add upserts a cart entry. The listing must exist and still be AVAILABLE;
// adding an existing entry bumps its quantity.
func (r *Repo) Add(ctx context.Context, userID, listingID string, qty int) error {
	if qty < 1 {
		return catalog.ErrInvalidInput
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status catalog.Status
	err = tx.QueryRow(ctx, `SELECT status FROM listings WHERE id=$1`, listingID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != catalog.StatusAvailable {
		return fmt.Errorf("%w: listing is %s", catalog.ErrInvalidState, status)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_entries(user_id, listing_id, quantity, added_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, listing_id)
		DO UPDATE SET quantity = cart_entries.quantity + EXCLUDED.quantity`,
		userID, listingID, qty, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update sets an entry's quantity. A quantity of zero or less removes the
// entry.
func (r *Repo) Update(ctx context.Context, userID, listingID string, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, userID, listingID)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_entries SET quantity=$3 WHERE user_id=$1 AND listing_id=$2`,
		userID, listingID, qty,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, listingID string) error {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM cart_entries WHERE user_id=$1 AND listing_id=$2`,
		userID, listingID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// View returns the cart joined to live listing data, with line totals and
// the grand total.
func (r *Repo) View(ctx context.Context, userID string) (*View, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ce.listing_id, ce.quantity, ce.added_at, l.title, l.price_cents, l.status
		FROM cart_entries ce
		JOIN listings l ON l.id = ce.listing_id
		WHERE ce.user_id=$1
		ORDER BY ce.added_at, ce.listing_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	v := &View{Items: []Item{}}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ListingID, &it.Quantity, &it.AddedAt, &it.Title, &it.PriceCents, &it.Status); err != nil {
			return nil, err
		}
		v.Items = append(v.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	v.TotalCents = computeTotals(v.Items)
	return v, nil
}
