package letters

import "context"

// Repo persists generated letters. Create accumulates: a user can hold
// several letters for the same job.
type Repo interface {
	// Create inserts a new letter.
	Create(ctx context.Context, letter *Letter) error
	// GetByID returns the letter if it belongs to userID, else ErrNotFound.
	GetByID(ctx context.Context, userID, id string) (*Letter, error)
	// UpdateContent overwrites the letter body if it belongs to userID,
	// else ErrNotFound.
	UpdateContent(ctx context.Context, userID, id, content string) error
	// ListByUser returns the user's letters, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*Letter, error)
}
