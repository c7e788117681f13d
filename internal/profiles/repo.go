package profiles

import "context"

// Repo persists user document records.
type Repo interface {
	// Get returns the record for (userID, slot), or ErrNotFound.
	Get(ctx context.Context, userID string, slot Slot) (*Document, error)
	// SetFilePath upserts the record's file path and original filename,
	// clearing any cached text since the stored file changed.
	SetFilePath(ctx context.Context, userID string, slot Slot, filePath, fileName string) error
	// SetText upserts the record's extracted text.
	SetText(ctx context.Context, userID string, slot Slot, text string) error
	// GetProfile returns both slots for the user. Missing slots are nil.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}
