package object

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object: not found")

// Store abstracts object storage for uploaded documents.
type Store interface {
	// Put writes the object at key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns the object bytes at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object at key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
	// SignedURL returns a time-limited URL for direct download of key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
