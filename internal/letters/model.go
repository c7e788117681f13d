package letters

import "time"

// Tones accepted by the generator.
const (
	ToneCasual     = "casual"
	ToneFormal     = "formal"
	ToneConfident  = "confident"
	TonePersuasive = "persuasive"
)

// Styles accepted by the generator.
const (
	StyleNarrative   = "narrative"
	StyleBulletPoint = "bullet-point"
	StyleHybrid      = "hybrid"
)

// ValidTone reports whether tone is one of the accepted values.
func ValidTone(tone string) bool {
	switch tone {
	case ToneCasual, ToneFormal, ToneConfident, TonePersuasive:
		return true
	}
	return false
}

// ValidStyle reports whether style is one of the accepted values.
func ValidStyle(style string) bool {
	switch style {
	case StyleNarrative, StyleBulletPoint, StyleHybrid:
		return true
	}
	return false
}

// JobInput is the job detail a letter is generated against.
type JobInput struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
}

// Params is one batch generation request.
type Params struct {
	Jobs        []JobInput
	Tone        string
	Style       string
	Resume      string
	CoverLetter string
}

// Letter is a persisted generated cover letter.
type Letter struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	JobID     string    `json:"jobId"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	Company   string    `json:"company,omitempty"`
	Tone      string    `json:"tone"`
	Style     string    `json:"style"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GenerationError describes why one job's letter failed.
type GenerationError struct {
	Code    string `json:"code"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

// Per-job failure codes.
const (
	CodeCompletionFailed = "completion_failed"
	CodeInvalidResponse  = "invalid_response"
	CodeSaveFailed       = "save_failed"
)

// Result is the outcome for one input job. Exactly one of Content/Err
// describes the primary outcome; save_failed carries both.
type Result struct {
	JobID    string           `json:"jobId,omitempty"`
	LetterID string           `json:"letterId,omitempty"`
	Content  string           `json:"content,omitempty"`
	Err      *GenerationError `json:"error,omitempty"`
}
