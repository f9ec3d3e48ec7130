// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"time"
)

// ObjectStore is the interface the upload broker and metadata registry use
// to reach the binary object store. It never moves bytes itself; uploads
// happen directly between the client and the store via presigned URLs.
type ObjectStore interface {
	// PresignPut returns a time-limited URL granting a single PUT of the
	// given content type against key. No object is created until the
	// client completes the PUT.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
