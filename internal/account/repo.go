package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Register creates a user with a bcrypt password hash. Emails are stored
// lowercased and must be unique.
func (r *Repo) Register(ctx context.Context, email, username, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email=$1`, email).Scan(&existing)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO users(id, email, username, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Email, u.Username, hash, u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user for an email/password pair, or
// ErrUnauthorized without saying which part was wrong.
func (r *Repo) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.Username, &u.passwordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(u.passwordHash, password) {
		return nil, ErrUnauthorized
	}
	return &u, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, username, created_at FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Email, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes the display name.
func (r *Repo) UpdateProfile(ctx context.Context, id, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidInput
	}
	_, err := r.DB.Exec(ctx, `UPDATE users SET username=$2 WHERE id=$1`, id, username)
	return err
}
