package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const listingCols = `id, seller_id, title, description, category, price_cents, image_url, status, created_at, updated_at`

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Category,
		&l.PriceCents, &l.ImageURL, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) Create(ctx context.Context, sellerID string, f Fields) (*Listing, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &Listing{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		PriceCents:  f.PriceCents,
		ImageURL:    f.ImageURL,
		Status:      StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO listings(id, seller_id, title, description, category, price_cents, image_url, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		l.ID, l.SellerID, l.Title, l.Description, l.Category, l.PriceCents, l.ImageURL, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Listing, error) {
	l, err := scanListing(r.DB.QueryRow(ctx, `SELECT `+listingCols+` FROM listings WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

// Update replaces a listing's editable fields. Only the owner may edit and
// only while the listing is still AVAILABLE.
func (r *Repo) Update(ctx context.Context, id, callerID string, f Fields) (*Listing, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := checkOwnedAvailable(ctx, tx, id, callerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := tx.QueryRow(ctx, `
		UPDATE listings
		SET title=$2, description=$3, category=$4, price_cents=$5, image_url=$6, updated_at=$7
		WHERE id=$1
		RETURNING `+listingCols,
		id, f.Title, f.Description, f.Category, f.PriceCents, f.ImageURL, now,
	)
	l, err := scanListing(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a listing and purges every cart entry referencing it, in
// one transaction, so no cart is left with a dangling reference.
func (r *Repo) Delete(ctx context.Context, id, callerID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := checkOwnedAvailable(ctx, tx, id, callerID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_entries WHERE listing_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM listings WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// checkOwnedAvailable locks the row and enforces the ownership and
// lifecycle rules shared by Update and Delete.
func checkOwnedAvailable(ctx context.Context, tx pgx.Tx, id, callerID string) error {
	var sellerID string
	var status Status
	err := tx.QueryRow(ctx, `SELECT seller_id, status FROM listings WHERE id=$1 FOR UPDATE`, id).
		Scan(&sellerID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if sellerID != callerID {
		return ErrForbidden
	}
	if status != StatusAvailable {
		return fmt.Errorf("%w: listing is %s", ErrInvalidState, status)
	}
	return nil
}

// Search returns AVAILABLE listings matching the filter.
func (r *Repo) Search(ctx context.Context, f Filter) ([]Listing, error) {
	q := `SELECT ` + listingCols + ` FROM listings WHERE status=$1`
	args := []any{StatusAvailable}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		q += fmt.Sprintf(` AND title ILIKE $%d`, len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(` AND category=$%d`, len(args))
	}
	q += ` ORDER BY ` + orderClause(f.Sort)

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func orderClause(s SortKey) string {
	switch s {
	case SortOldest:
		return `created_at ASC, id`
	case SortPriceAsc:
		return `price_cents ASC, id`
	case SortPriceDesc:
		return `price_cents DESC, id`
	default:
		return `created_at DESC, id`
	}
}

// BySeller lists a seller's own listings for the dashboard, newest first,
// regardless of status.
func (r *Repo) BySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+listingCols+` FROM listings
		WHERE seller_id=$1 ORDER BY created_at DESC, id`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
