// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the S3 implementation works with Amazon S3 directly; tests use an in-memory
// fake.
package storage

import (
	"context"
	"errors"
	"io"
)

// Sentinel errors used to classify provider failures at the request boundary.
// Anything not matching one of these is treated as an unknown upload error.
var (
	// ErrAccessDenied means the provider rejected the credentials or the
	// credentials lack permission to write to the bucket.
	ErrAccessDenied = errors.New("storage: access denied")

	// ErrBucketNotFound means the configured bucket does not exist or lives
	// in a different region than the one configured.
	ErrBucketNotFound = errors.New("storage: bucket not found")
)

// Storage is the interface for writing objects to the store.
type Storage interface {
	// Upload streams data to the store under the given key. size must be the
	// exact byte count of reader's content.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// ObjectURL constructs the browser-accessible URL for a given key.
	ObjectURL(key string) string
}
