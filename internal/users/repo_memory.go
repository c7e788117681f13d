package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps users in memory. Used when no database is configured
// and in tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*User
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo builds an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]*User)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.users[user.ID]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.UpdatedAt = now
		return nil
	}
	cp := *user
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.users[cp.ID] = &cp
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}
