package profiles

import "time"

// Slot identifies which of a user's two document slots a record belongs to.
type Slot string

const (
	SlotResume      Slot = "resume"
	SlotCoverLetter Slot = "cover_letter"
)

// Valid reports whether the slot is one of the known values.
func (s Slot) Valid() bool {
	return s == SlotResume || s == SlotCoverLetter
}

// Document is one user document slot: where the file lives, the name it was
// uploaded under, and the text extracted from it, if any.
type Document struct {
	UserID    string    `json:"userId"`
	Slot      Slot      `json:"slot"`
	FilePath  string    `json:"filePath,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile bundles both document slots for a user.
type Profile struct {
	UserID      string    `json:"userId"`
	Resume      *Document `json:"resume,omitempty"`
	CoverLetter *Document `json:"coverLetter,omitempty"`
}
