// Package docstore persists supplier document bytes under content-addressed
// keys. The relational row referencing a key is written by the supplier
// store inside the submission transaction; bytes are always written here
// first, so a committed row never points at bytes that were never stored.
// The reverse (orphaned bytes after a rolled-back transaction) is accepted.
package docstore

import (
	"context"
)

// BlobStore is the pluggable byte backend: local filesystem in dev,
// Cloudinary in production.
type BlobStore interface {
	// Store durably writes data under key, overwriting any previous value.
	Store(ctx context.Context, key string, data []byte) error
	// Delete removes the bytes at key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
