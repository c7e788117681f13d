package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo stores generated letters in Postgres.
type PGRepo struct {
	db *sql.DB
}

var _ Repo = (*PGRepo)(nil)

// NewPGRepo builds a Postgres-backed repo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Create(ctx context.Context, letter *Letter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO generated_letters (id, user_id, job_id, job_title, company, tone, style, cover_letter_md, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
		letter.ID, letter.UserID, letter.JobID, letter.JobTitle, letter.Company,
		letter.Tone, letter.Style, letter.Content)
	if err != nil {
		return fmt.Errorf("letters: create: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (*Letter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, job_id, COALESCE(job_title, ''), COALESCE(company, ''), tone, style, cover_letter_md, created_at, updated_at
		FROM generated_letters
		WHERE id = $1 AND user_id = $2`, id, userID)

	var l Letter
	if err := row.Scan(&l.ID, &l.UserID, &l.JobID, &l.JobTitle, &l.Company,
		&l.Tone, &l.Style, &l.Content, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("letters: get by id: %w", err)
	}
	return &l, nil
}

func (r *PGRepo) UpdateContent(ctx context.Context, userID, id, content string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE generated_letters
		SET cover_letter_md = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3`, content, id, userID)
	if err != nil {
		return fmt.Errorf("letters: update content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("letters: update content rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*Letter, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, job_id, COALESCE(job_title, ''), COALESCE(company, ''), tone, style, cover_letter_md, created_at, updated_at
		FROM generated_letters
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("letters: list by user: %w", err)
	}
	defer rows.Close()

	var out []*Letter
	for rows.Next() {
		var l Letter
		if err := rows.Scan(&l.ID, &l.UserID, &l.JobID, &l.JobTitle, &l.Company,
			&l.Tone, &l.Style, &l.Content, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("letters: scan letter: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("letters: iterate letters: %w", err)
	}
	return out, nil
}
