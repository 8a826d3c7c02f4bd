// Package storage defines the Backend interface used to publish scan
// artifacts (the asset index and the preview grid image).
package storage

import (
	"context"
	"io"
)

// Backend is the interface for artifact storage backends. Implementations
// handle raw object I/O (local filesystem, S3/MinIO).
type Backend interface {
	// GetObject retrieves an object by key.
	GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// PutObject uploads content to the given key.
	PutObject(ctx context.Context, key string, body io.Reader, size int64) error

	// DeleteObject removes an object by key.
	DeleteObject(ctx context.Context, key string) error

	// ObjectExists checks if an object exists at the given key.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// Type returns the backend type identifier ("local", "s3").
	Type() string

	// Close releases any resources held by the backend.
	Close() error
}
