package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yugant99/TaylorAI/internal/shared/storage/object"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
	"github.com/yugant99/TaylorAI/internal/shared/util"
)

// TextExtractor pulls plain text out of document bytes.
type TextExtractor interface {
	FromBytes(name string, data []byte) (string, error)
}

// Service manages user document slots and their cached text.
type Service struct {
	repo      Repo
	store     object.Store
	extractor TextExtractor
	urlTTL    time.Duration

	extracting singleflight.Group
}

// NewService wires the document service.
func NewService(repo Repo, store object.Store, extractor TextExtractor, urlTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		extractor: extractor,
		urlTTL:    urlTTL,
	}
}

// bucketFor maps a slot to its storage bucket prefix.
func bucketFor(slot Slot) string {
	if slot == SlotCoverLetter {
		return "coverletters"
	}
	return "resumes"
}

// Upload stores a document in the given slot, replacing any previous file
// and invalidating cached text. It returns the stored record and a signed
// download URL.
func (s *Service) Upload(ctx context.Context, userID string, slot Slot, fileName string, data []byte, contentType string) (*Document, string, error) {
	if !slot.Valid() {
		return nil, "", ErrInvalidSlot
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("profiles: empty file")
	}

	safeName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return nil, "", fmt.Errorf("profiles: %w", err)
	}
	key := fmt.Sprintf("%s/%s/%s", bucketFor(slot), util.HashUserKey(userID), safeName)

	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		return nil, "", fmt.Errorf("profiles: store upload: %w", err)
	}

	if err := s.repo.SetFilePath(ctx, userID, slot, key, safeName); err != nil {
		return nil, "", err
	}

	url, err := s.store.SignedURL(ctx, key, s.urlTTL)
	if err != nil {
		telemetry.Warn("profiles.sign_url_failed", map[string]any{
			"user_id": userID, "slot": string(slot), "error": err.Error(),
		})
		url = ""
	}

	doc, err := s.repo.Get(ctx, userID, slot)
	if err != nil {
		return nil, "", err
	}
	return doc, url, nil
}

// SaveText stores caller-provided text for the slot, bypassing extraction.
func (s *Service) SaveText(ctx context.Context, userID string, slot Slot, text string) (*Document, error) {
	if !slot.Valid() {
		return nil, ErrInvalidSlot
	}
	clean := util.SanitizeText(text)
	if err := s.repo.SetText(ctx, userID, slot, clean); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, slot)
}

// Profile returns both document slots for the user.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// SignedURL returns a download URL for the slot's stored file.
func (s *Service) SignedURL(ctx context.Context, userID string, slot Slot) (string, error) {
	doc, err := s.repo.Get(ctx, userID, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrDocumentMissing
		}
		return "", err
	}
	if doc.FilePath == "" {
		return "", ErrDocumentMissing
	}
	return s.store.SignedURL(ctx, doc.FilePath, s.urlTTL)
}

// EnsureText returns the slot's text, extracting and caching it from the
// stored file on first use. Cached text always wins. Concurrent callers for
// the same (user, slot) share one extraction.
func (s *Service) EnsureText(ctx context.Context, userID string, slot Slot) (string, error) {
	if !slot.Valid() {
		return "", ErrInvalidSlot
	}

	key := userID + "|" + string(slot)
	v, err, _ := s.extracting.Do(key, func() (interface{}, error) {
		return s.ensureTextLocked(ctx, userID, slot)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *Service) ensureTextLocked(ctx context.Context, userID string, slot Slot) (string, error) {
	doc, err := s.repo.Get(ctx, userID, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrDocumentMissing
		}
		return "", err
	}

	if doc.Text != "" {
		return doc.Text, nil
	}
	if doc.FilePath == "" {
		return "", ErrDocumentMissing
	}

	data, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		telemetry.Warn("profiles.fetch_failed", map[string]any{
			"user_id": userID, "slot": string(slot), "path": doc.FilePath, "error": err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text, err := s.extractor.FromBytes(doc.FilePath, data)
	if err != nil {
		telemetry.Warn("profiles.extract_failed", map[string]any{
			"user_id": userID, "slot": string(slot), "path": doc.FilePath, "error": err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	if err := s.repo.SetText(ctx, userID, slot, text); err != nil {
		// The extraction succeeded; serve the text even if caching failed.
		telemetry.Warn("profiles.cache_write_failed", map[string]any{
			"user_id": userID, "slot": string(slot), "error": err.Error(),
		})
	}

	return text, nil
}
