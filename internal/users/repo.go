package users

import (
	"context"
	"errors"
)

// ErrNotFound means the user row does not exist.
var ErrNotFound = errors.New("users: not found")

// Repo persists user accounts.
type Repo interface {
	// Upsert inserts the user or refreshes email/name on conflict.
	Upsert(ctx context.Context, user *User) error
	// GetByID returns one user, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)
}
