package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobe-stylist/db"
	"wardrobe-stylist/models"
)

// Runs only when TEST_DATABASE_URL points at a disposable Postgres database.
func TestPostgresCatalogRepository_SaveAndLoad(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := sql.Open("pgx", url)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.Migrate(ctx, conn))

	repo := NewPostgresCatalogRepository(conn)
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	items := []models.WardrobeItem{
		{ID: "z", ImageRef: "tee.png", Category: models.CategoryShirt, Tags: []string{"casual", "a,b"}, CreatedAt: created},
		{ID: "y", ImageRef: "boots.png", Category: models.CategoryShoes, CreatedAt: created},
	}
	require.NoError(t, repo.SaveCatalog(ctx, items))

	loaded, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "z", loaded[0].ID)
	assert.Equal(t, []string{"casual", "a,b"}, loaded[0].Tags)
	assert.True(t, created.Equal(loaded[1].CreatedAt))

	require.NoError(t, repo.SaveCatalog(ctx, items[1:]))
	loaded, err = repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "y", loaded[0].ID)
}
