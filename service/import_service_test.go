package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobe-stylist/catalog"
	"wardrobe-stylist/models"
	"wardrobe-stylist/recommend"
)

func TestImportService_ImportFolder(t *testing.T) {
	ctx := context.Background()
	images, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)
	wardrobe := NewWardrobeService(catalog.NewInMemory(), images, nil, recommend.New())
	importer := NewImportService(wardrobe)

	dir := t.TempDir()
	for _, name := range []string{"shirt-casual_summer.png", "pants-formal.png", "untitled.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), pngBytes(t, 2, 2), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shoes-broken.png"), []byte("nope"), 0644))

	stats, err := importer.ImportFolder(ctx, dir, "")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Processed)
	assert.Len(t, stats.Errors, 2) // untitled has no category, shoes-broken is not an image

	resp, err := wardrobe.ListWardrobe(ctx, "shirt")
	require.NoError(t, err)
	require.Len(t, resp.Groups[0].Items, 1)
	assert.Equal(t, []string{"casual", "summer"}, resp.Groups[0].Items[0].Tags)

	// second run skips what is already there and applies the default category
	stats, err = importer.ImportFolder(ctx, dir, "Shoes")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.Processed)

	resp, err = wardrobe.ListWardrobe(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
}

func TestImportService_ExportImages(t *testing.T) {
	ctx := context.Background()
	wardrobe, _ := newTestWardrobe(t)
	addItem(t, wardrobe, "Shirt", "casual")
	addItem(t, wardrobe, "Shirt", "casual")
	addItem(t, wardrobe, "Pants", "light grey")

	importer := NewImportService(wardrobe)
	dir := t.TempDir()

	stats, err := importer.ExportImages(ctx, dir, SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Processed)
	assert.FileExists(t, filepath.Join(dir, "shirt-casual.jpg"))
	assert.FileExists(t, filepath.Join(dir, "shirt-casual_1.jpg"))
	assert.FileExists(t, filepath.Join(dir, "pants-light-grey.jpg"))

	stats, err = importer.ExportImages(ctx, dir, SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Skipped)

	// an export imports back into an empty wardrobe with the same categories and tags
	target, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)
	fresh := NewWardrobeService(catalog.NewInMemory(), target, nil, recommend.New())
	stats, err = NewImportService(fresh).ImportFolder(ctx, dir, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Processed)

	resp, err := fresh.ListWardrobe(ctx, "pants")
	require.NoError(t, err)
	require.Len(t, resp.Groups[0].Items, 1)
	assert.Equal(t, models.CategoryPants, resp.Groups[0].Items[0].Category)
	assert.Equal(t, []string{"light grey"}, resp.Groups[0].Items[0].Tags)
}

func TestImportService_ExportImportTaglessDuplicates(t *testing.T) {
	ctx := context.Background()
	wardrobe, _ := newTestWardrobe(t)
	addItem(t, wardrobe, "Shirt", "")
	addItem(t, wardrobe, "Shirt", "")

	dir := t.TempDir()
	stats, err := NewImportService(wardrobe).ExportImages(ctx, dir, SizeThumb)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.FileExists(t, filepath.Join(dir, "shirt.jpg"))
	assert.FileExists(t, filepath.Join(dir, "shirt_1.jpg"))

	target, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)
	fresh := NewWardrobeService(catalog.NewInMemory(), target, nil, recommend.New())
	stats, err = NewImportService(fresh).ImportFolder(ctx, dir, "")
	require.NoError(t, err)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, 2, stats.Processed)

	resp, err := fresh.ListWardrobe(ctx, "shirt")
	require.NoError(t, err)
	require.Len(t, resp.Groups[0].Items, 2)
	for _, item := range resp.Groups[0].Items {
		assert.Empty(t, item.Tags)
	}
}
