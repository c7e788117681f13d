package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps jobs and selections in memory. Used when no database is
// configured and in tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	jobs       map[string]*Job
	selections map[string][]Selection
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo builds an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		jobs:       make(map[string]*Job),
		selections: make(map[string][]Selection),
	}
}

// Seed inserts jobs directly, for dev setups and tests.
func (r *MemoryRepo) Seed(list ...*Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range list {
		cp := *j
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now().UTC()
		}
		r.jobs[cp.ID] = &cp
	}
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *MemoryRepo) GetByIDs(ctx context.Context, ids []string) ([]*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := r.jobs[id]; ok {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) SetSelections(ctx context.Context, userID string, jobIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	sel := make([]Selection, 0, len(jobIDs))
	for _, id := range jobIDs {
		sel = append(sel, Selection{UserID: userID, JobID: id, SelectedAt: now})
	}
	r.selections[userID] = sel
	return nil
}

func (r *MemoryRepo) GetSelections(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sel := r.selections[userID]
	ids := make([]string, 0, len(sel))
	for _, s := range sel {
		ids = append(ids, s.JobID)
	}
	return ids, nil
}
