package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/pkg/filevault"
)

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blobs")

	_, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating again over the existing directory succeeds.
	_, err = New(Config{BaseDir: dir})
	assert.NoError(t, err)
}

func TestWriteOpenDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	content := []byte("hello world")
	locator, err := backend.Write(ctx, "obj1", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "obj1"), locator)

	rc, err := backend.Open(ctx, locator)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, got)

	require.NoError(t, backend.Delete(ctx, locator))
	_, err = backend.Open(ctx, locator)
	assert.Error(t, err)
}

func TestWriteNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	locator, err := backend.Write(ctx, "obj1", bytes.NewReader([]byte("first")))
	require.NoError(t, err)

	_, err = backend.Write(ctx, "obj1", bytes.NewReader([]byte("second")))
	require.Error(t, err)

	var storageErr *filevault.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "fs", storageErr.Backend)
	assert.Equal(t, "write", storageErr.Op)

	rc, err := backend.Open(ctx, locator)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}
