package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo stores users in Postgres.
type PGRepo struct {
	db *sql.DB
}

var _ Repo = (*PGRepo)(nil)

// NewPGRepo builds a Postgres-backed repo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Upsert(ctx context.Context, user *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (id)
		DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = now()`,
		user.ID, nullIfEmpty(user.Email), nullIfEmpty(user.Name))
	if err != nil {
		return fmt.Errorf("users: upsert: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(email, ''), COALESCE(name, ''), created_at, updated_at
		FROM users WHERE id = $1`, id)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("users: get by id: %w", err)
	}
	return &u, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
