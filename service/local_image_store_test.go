package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStore_StoreResolveRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir)
	require.NoError(t, err)

	data := pngBytes(t, 4, 4)
	ref, err := store.Store(ctx, data, "../My Shirt.PNG")
	require.NoError(t, err)
	assert.Equal(t, "My_Shirt.png", ref)
	assert.FileExists(t, filepath.Join(dir, ref))

	got, err := store.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Remove(ctx, ref))
	_, err = store.Resolve(ctx, ref)
	assert.ErrorIs(t, err, ErrImageNotFound)

	// removing twice is fine
	assert.NoError(t, store.Remove(ctx, ref))
}

func TestLocalImageStore_NameCollision(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Store(ctx, pngBytes(t, 2, 2), "shirt.png")
	require.NoError(t, err)
	second, err := store.Store(ctx, pngBytes(t, 3, 3), "shirt.png")
	require.NoError(t, err)

	assert.Equal(t, "shirt.png", first)
	assert.Equal(t, "shirt_1.png", second)
}

func TestLocalImageStore_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Store(ctx, []byte("not an image"), "shirt.png")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = store.Store(ctx, pngBytes(t, 2, 2), "shirt.gif")
	assert.Error(t, err)
}

func TestLocalImageStore_RejectsEscapingRefs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalImageStore(filepath.Join(dir, "images"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.png"), []byte("x"), 0644))

	for _, ref := range []string{"../secret.png", "", "..", "a/b.png"} {
		_, err := store.Resolve(ctx, ref)
		assert.ErrorIs(t, err, ErrImageNotFound, ref)
	}
	assert.FileExists(t, filepath.Join(dir, "secret.png"))
	assert.Error(t, store.Remove(ctx, "../secret.png"))
	assert.FileExists(t, filepath.Join(dir, "secret.png"))
}

// failingCloseFile writes through to a real file but reports a Close error
type failingCloseFile struct {
	*os.File
}

func (f failingCloseFile) Close() error {
	f.File.Close()
	return errors.New("disk quota exceeded")
}

func TestWriteImageFile_RemovesFileWhenCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shirt.png")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	require.NoError(t, err)

	err = writeImageFile(failingCloseFile{f}, pngBytes(t, 2, 2))
	assert.ErrorContains(t, err, "failed to close image file")
	assert.NoFileExists(t, path)
}

func TestWriteImageFile_KeepsFileOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shirt.png")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	require.NoError(t, err)

	data := pngBytes(t, 2, 2)
	require.NoError(t, writeImageFile(f, data))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
