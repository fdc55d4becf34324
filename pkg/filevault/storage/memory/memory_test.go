package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/pkg/filevault"
)

func TestWriteOpenDelete(t *testing.T) {
	ctx := context.Background()
	backend := New()

	content := []byte("payload")
	locator, err := backend.Write(ctx, "obj1", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "obj1", locator)

	rc, err := backend.Open(ctx, locator)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, got)

	require.NoError(t, backend.Delete(ctx, locator))

	_, err = backend.Open(ctx, locator)
	var storageErr *filevault.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "memory", storageErr.Backend)
}

func TestWriteNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	backend := New()

	_, err := backend.Write(ctx, "obj1", bytes.NewReader([]byte("first")))
	require.NoError(t, err)

	_, err = backend.Write(ctx, "obj1", bytes.NewReader([]byte("second")))
	require.Error(t, err)

	rc, err := backend.Open(ctx, "obj1")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestDeleteUnknownObject(t *testing.T) {
	backend := New()
	assert.Error(t, backend.Delete(context.Background(), "absent"))
}
