package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/filevault/filevault/pkg/filevault"
)

// Backend is an in-memory implementation of the filevault.BlobStore
// interface, intended for tests and development.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend.
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

func (b *Backend) Write(ctx context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &filevault.StorageError{Backend: "memory", Key: key, Op: "write", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; exists {
		return "", &filevault.StorageError{Backend: "memory", Key: key, Op: "write", Err: errors.New("object already exists")}
	}
	b.objects[key] = data

	return key, nil
}

func (b *Backend) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[locator]
	if !exists {
		return nil, &filevault.StorageError{Backend: "memory", Key: locator, Op: "open", Err: errors.New("object not found")}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Backend) Delete(ctx context.Context, locator string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[locator]; !exists {
		return &filevault.StorageError{Backend: "memory", Key: locator, Op: "delete", Err: errors.New("object not found")}
	}
	delete(b.objects, locator)
	return nil
}
