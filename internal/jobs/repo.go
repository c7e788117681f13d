package jobs

import "context"

// Repo reads job postings and manages per-user selections.
type Repo interface {
	// GetByID returns one job, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Job, error)
	// GetByIDs returns the jobs for ids, preserving input order. Unknown
	// ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*Job, error)
	// ListRecent returns up to limit jobs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Job, error)
	// SetSelections replaces the user's selections with jobIDs.
	SetSelections(ctx context.Context, userID string, jobIDs []string) error
	// GetSelections returns the user's selected job ids, newest first.
	GetSelections(ctx context.Context, userID string) ([]string, error)
}
