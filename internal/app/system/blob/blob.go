// internal/app/system/blob/blob.go

// Package blob is the thin seam between the editors and the file store.
// Handlers depend on the narrow Store interface so tests can substitute a
// recording fake and assert, for example, that a rejected image never
// reaches the store at all. waffle's pantry/storage backends satisfy the
// interface as-is.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Store is the subset of waffle's storage.Store the editors use.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	PresignedURL(ctx context.Context, path string, opts *storage.PresignOptions) (string, error)
}

// UploadInfo describes a stored image.
type UploadInfo struct {
	Path string
	Size int64
}

// UploadImage stores a validated PNG under a unique path
// (images/YYYY/MM/<uuid8>.png) and returns the storage reference.
func UploadImage(ctx context.Context, store Store, r io.Reader, size int64) (UploadInfo, error) {
	now := time.Now().UTC()
	path := fmt.Sprintf("images/%04d/%02d/%s.png", now.Year(), now.Month(), uuid.New().String()[:8])

	opts := &storage.PutOptions{ContentType: "image/png"}
	if err := store.Put(ctx, path, r, opts); err != nil {
		return UploadInfo{}, fmt.Errorf("failed to upload image: %w", err)
	}
	return UploadInfo{Path: path, Size: size}, nil
}

// ResolveURL returns a browser-usable URL for a stored image reference.
func ResolveURL(ctx context.Context, store Store, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return store.PresignedURL(ctx, path, &storage.PresignOptions{Expires: 15 * time.Minute})
}
