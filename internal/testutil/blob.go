package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/dalemusser/waffle/pantry/storage"
)

// BlobRecorder is an in-memory file store that records every call, so
// tests can assert which uploads actually happened.
type BlobRecorder struct {
	mu      sync.Mutex
	files   map[string][]byte
	puts    int
	deletes int
}

// NewBlobRecorder returns an empty recording store.
func NewBlobRecorder() *BlobRecorder {
	return &BlobRecorder{files: make(map[string][]byte)}
}

func (b *BlobRecorder) Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
	b.files[path] = data
	return nil
}

func (b *BlobRecorder) Delete(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes++
	delete(b.files, path)
	return nil
}

func (b *BlobRecorder) PresignedURL(ctx context.Context, path string, opts *storage.PresignOptions) (string, error) {
	return "/files/" + path, nil
}

// PutCount reports how many Put calls the store has seen.
func (b *BlobRecorder) PutCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts
}

// DeleteCount reports how many Delete calls the store has seen.
func (b *BlobRecorder) DeleteCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deletes
}

// Stored reports whether a file exists at path.
func (b *BlobRecorder) Stored(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[path]
	return ok
}
