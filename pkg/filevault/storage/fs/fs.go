package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/filevault/filevault/pkg/filevault"
)

// Backend is a filesystem implementation of the filevault.BlobStore
// interface. Objects live as flat files under a base directory and locators
// are absolute paths.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing objects
}

// New creates a new filesystem storage backend. The base directory is created
// if absent; creation is idempotent and safe under concurrent callers.
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// Write materializes the reader's bytes as a new file named key under the
// base directory. Existing files are never overwritten; keys are expected to
// be freshly generated.
func (b *Backend) Write(ctx context.Context, key string, r io.Reader) (string, error) {
	path := filepath.Join(b.baseDir, key)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &filevault.StorageError{Backend: "fs", Key: key, Op: "write", Err: err}
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(path)
		return "", &filevault.StorageError{Backend: "fs", Key: key, Op: "write", Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", &filevault.StorageError{Backend: "fs", Key: key, Op: "write", Err: err}
	}

	return path, nil
}

func (b *Backend) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	file, err := os.Open(locator)
	if err != nil {
		return nil, &filevault.StorageError{Backend: "fs", Key: locator, Op: "open", Err: err}
	}
	return file, nil
}

func (b *Backend) Delete(ctx context.Context, locator string) error {
	if err := os.Remove(locator); err != nil {
		return &filevault.StorageError{Backend: "fs", Key: locator, Op: "delete", Err: err}
	}
	return nil
}
