package profiles

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps document records in memory. Used when no database is
// configured and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo builds an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]*Document)}
}

func memKey(userID string, slot Slot) string {
	return userID + "|" + string(slot)
}

func (r *MemoryRepo) Get(ctx context.Context, userID string, slot Slot) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[memKey(userID, slot)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *MemoryRepo) SetFilePath(ctx context.Context, userID string, slot Slot, filePath, fileName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	key := memKey(userID, slot)
	if d, ok := r.docs[key]; ok {
		d.FilePath = filePath
		d.FileName = fileName
		d.Text = ""
		d.UpdatedAt = now
		return nil
	}
	r.docs[key] = &Document{
		UserID:    userID,
		Slot:      slot,
		FilePath:  filePath,
		FileName:  fileName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *MemoryRepo) SetText(ctx context.Context, userID string, slot Slot, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	key := memKey(userID, slot)
	if d, ok := r.docs[key]; ok {
		d.Text = text
		d.UpdatedAt = now
		return nil
	}
	r.docs[key] = &Document{
		UserID:    userID,
		Slot:      slot,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *MemoryRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := &Profile{UserID: userID}
	if d, ok := r.docs[memKey(userID, SlotResume)]; ok {
		cp := *d
		p.Resume = &cp
	}
	if d, ok := r.docs[memKey(userID, SlotCoverLetter)]; ok {
		cp := *d
		p.CoverLetter = &cp
	}
	return p, nil
}
