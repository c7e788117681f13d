package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo stores jobs and selections in Postgres.
type PGRepo struct {
	db *sql.DB
}

var _ Repo = (*PGRepo)(nil)

// NewPGRepo builds a Postgres-backed repo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const jobColumns = `id, title, company, COALESCE(description, ''), COALESCE(location, ''),
	COALESCE(salary_min, 0), COALESCE(salary_max, 0), COALESCE(currency, ''),
	tech_skills, soft_skills, responsibilities, qualifications, COALESCE(source_url, ''), created_at`

func scanJob(scan func(dest ...any) error) (*Job, error) {
	var j Job
	var tech, soft, resp, qual []byte
	if err := scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.Location,
		&j.SalaryMin, &j.SalaryMax, &j.Currency,
		&tech, &soft, &resp, &qual, &j.SourceURL, &j.CreatedAt); err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{tech, &j.TechSkills},
		{soft, &j.SoftSkills},
		{resp, &j.Responsibilities},
		{qual, &j.Qualifications},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return nil, fmt.Errorf("jobs: decode list field: %w", err)
			}
		}
	}
	return &j, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("jobs: get by id: %w", err)
	}
	return j, nil
}

func (r *PGRepo) GetByIDs(ctx context.Context, ids []string) ([]*Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("jobs: get by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*Job, len(ids))
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("jobs: scan job: %w", err)
		}
		byID[j.ID] = j
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobs: iterate jobs: %w", err)
	}

	out := make([]*Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("jobs: list recent: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("jobs: scan job: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobs: iterate jobs: %w", err)
	}
	return out, nil
}

func (r *PGRepo) SetSelections(ctx context.Context, userID string, jobIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("jobs: begin selections tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_job_selections WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("jobs: clear selections: %w", err)
	}

	for _, jobID := range jobIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_job_selections (user_id, job_id, selected_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id, job_id) DO UPDATE SET selected_at = now()`,
			userID, jobID); err != nil {
			return fmt.Errorf("jobs: insert selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("jobs: commit selections: %w", err)
	}
	return nil
}

func (r *PGRepo) GetSelections(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT job_id FROM user_job_selections
		WHERE user_id = $1
		ORDER BY selected_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("jobs: get selections: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("jobs: scan selection: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobs: iterate selections: %w", err)
	}
	return ids, nil
}
