// Package storage contains the content-addressed blob store used for record bytes.
// Objects are keyed by the CID of their bytes; a stored object never changes.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned by Get when no object has the requested hash.
	ErrNotFound = errors.New("storage: object not found")
	// ErrUnavailable marks connectivity failures that may succeed on retry.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Hash         string
	Size         int64
	LastModified time.Time
}

// ContentStore is a content-addressed blob store.
type ContentStore interface {
	// Put stores the bytes read from r and returns their content hash.
	// Putting the same bytes twice yields the same hash and stores one copy.
	Put(ctx context.Context, r io.Reader) (ObjectInfo, error)
	// Get streams the object stored under hash. The caller closes the reader.
	Get(ctx context.Context, hash string) (io.ReadCloser, ObjectInfo, error)
	// Has reports whether an object is stored under hash.
	Has(ctx context.Context, hash string) (bool, error)
}
