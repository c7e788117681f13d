package letters

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps generated letters in memory. Used when no database is
// configured and in tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	letters map[string]*Letter
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo builds an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{letters: make(map[string]*Letter)}
}

func (r *MemoryRepo) Create(ctx context.Context, letter *Letter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *letter
	now := time.Now().UTC()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = now
	}
	r.letters[cp.ID] = &cp
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (*Letter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.letters[id]
	if !ok || l.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *MemoryRepo) UpdateContent(ctx context.Context, userID, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.letters[id]
	if !ok || l.UserID != userID {
		return ErrNotFound
	}
	l.Content = content
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*Letter, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Letter
	for _, l := range r.letters {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
