// Package storage stores uploaded product images on a named disk.
//
// Two drivers are available:
//   - "local": a directory served by the API under /storage/
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disks, _ := storage.NewManager(ctx, storage.ConfigFromEnv())
//	path, _ := disks.Default().PutStream(ctx, "products/abc.jpg", file, "image/jpeg")
//	url := disks.Default().URL(path)
package storage

import (
	"context"
	"io"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// PutStream writes r to path, creating parent directories as needed.
	PutStream(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
