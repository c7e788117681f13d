package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yugant99/TaylorAI/internal/shared/storage/object"
)

// Store keeps objects on the local filesystem under a base directory.
// It is intended for development and tests.
type Store struct {
	baseDir string
	baseURL string
}

var _ object.Store = (*Store)(nil)

// New creates a local store rooted at baseDir. baseURL prefixes signed URLs
// so a dev file server can resolve them.
func New(baseDir, baseURL string) (*Store, error) {
	if baseDir == "" {
		baseDir = "data/objects"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: mkdir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Store) pathFor(key string) (string, error) {
	cleaned := filepath.Clean(strings.TrimLeft(key, "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("local store: invalid key %q", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("local store: mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("local store: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("local store: rename: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("local store: read: %w", err)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local store: remove: %w", err)
	}
	return nil
}

// SignedURL returns a plain URL to the object. Local storage has no signing,
// the TTL is ignored.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.pathFor(key); err != nil {
		return "", err
	}
	base := s.baseURL
	if base == "" {
		base = "file://" + s.baseDir
	}
	return base + "/" + strings.TrimLeft(key, "/"), nil
}
