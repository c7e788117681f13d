package profiles

import "errors"

var (
	// ErrNotFound means the user has no record for the requested slot.
	ErrNotFound = errors.New("profiles: document not found")

	// ErrDocumentMissing means the slot has neither cached text nor a
	// stored file to extract from.
	ErrDocumentMissing = errors.New("profiles: no document on file")

	// ErrExtractionFailed means a stored file exists but its text could
	// not be extracted.
	ErrExtractionFailed = errors.New("profiles: text extraction failed")

	// ErrInvalidSlot means the slot name is not a known value.
	ErrInvalidSlot = errors.New("profiles: invalid document slot")
)
