package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo stores document records in Postgres.
type PGRepo struct {
	db *sql.DB
}

var _ Repo = (*PGRepo)(nil)

// NewPGRepo builds a Postgres-backed repo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Get(ctx context.Context, userID string, slot Slot) (*Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, slot, COALESCE(file_path, ''), COALESCE(file_name, ''), COALESCE(extracted_text, ''), created_at, updated_at
		FROM user_documents
		WHERE user_id = $1 AND slot = $2`, userID, string(slot))

	var d Document
	var slotStr string
	if err := row.Scan(&d.UserID, &slotStr, &d.FilePath, &d.FileName, &d.Text, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profiles: get document: %w", err)
	}
	d.Slot = Slot(slotStr)
	return &d, nil
}

func (r *PGRepo) SetFilePath(ctx context.Context, userID string, slot Slot, filePath, fileName string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_documents (user_id, slot, file_path, file_name, extracted_text, updated_at)
		VALUES ($1, $2, $3, $4, NULL, now())
		ON CONFLICT (user_id, slot)
		DO UPDATE SET file_path = EXCLUDED.file_path, file_name = EXCLUDED.file_name, extracted_text = NULL, updated_at = now()`,
		userID, string(slot), filePath, fileName)
	if err != nil {
		return fmt.Errorf("profiles: set file path: %w", err)
	}
	return nil
}

func (r *PGRepo) SetText(ctx context.Context, userID string, slot Slot, text string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_documents (user_id, slot, extracted_text, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, slot)
		DO UPDATE SET extracted_text = EXCLUDED.extracted_text, updated_at = now()`,
		userID, string(slot), text)
	if err != nil {
		return fmt.Errorf("profiles: set text: %w", err)
	}
	return nil
}

func (r *PGRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, slot, COALESCE(file_path, ''), COALESCE(file_name, ''), COALESCE(extracted_text, ''), created_at, updated_at
		FROM user_documents
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("profiles: get profile: %w", err)
	}
	defer rows.Close()

	p := &Profile{UserID: userID}
	for rows.Next() {
		var d Document
		var slotStr string
		if err := rows.Scan(&d.UserID, &slotStr, &d.FilePath, &d.FileName, &d.Text, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("profiles: scan profile row: %w", err)
		}
		d.Slot = Slot(slotStr)
		switch d.Slot {
		case SlotResume:
			doc := d
			p.Resume = &doc
		case SlotCoverLetter:
			doc := d
			p.CoverLetter = &doc
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profiles: iterate profile rows: %w", err)
	}
	return p, nil
}
