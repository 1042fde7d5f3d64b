// Package storage abstracts where uploaded blobs live. Records in the
// database hold a storage key; the bytes themselves go to one of the
// backends below, selected by the STORAGE_BACKEND environment variable.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("blob not found")

// Store is the blob backend contract. Keys are opaque generated paths;
// callers never derive them from client input.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey generates a storage key under the given prefix, keeping the
// original extension so served blobs keep a sensible name.
func NewKey(prefix, filename string) string {
	return path.Join(prefix, uuid.NewString()+path.Ext(filename))
}

// NewFromEnv builds the configured backend. Defaults to a disk store under
// STORAGE_DIR (./data/uploads when unset).
func NewFromEnv() (Store, error) {
	switch backend := os.Getenv("STORAGE_BACKEND"); backend {
	case "", "disk":
		dir := os.Getenv("STORAGE_DIR")
		if dir == "" {
			dir = "data/uploads"
		}
		return NewDiskStore(dir)
	case "memory":
		return NewMemoryStore(), nil
	case "s3":
		bucket := os.Getenv("S3_BUCKET")
		if bucket == "" {
			return nil, fmt.Errorf("s3 storage requires S3_BUCKET to be set")
		}
		return NewS3Store(context.Background(), bucket, os.Getenv("S3_REGION"))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
