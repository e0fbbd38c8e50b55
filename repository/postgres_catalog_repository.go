package repository

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/db"
	"wardrobe-stylist/models"
	"wardrobe-stylist/utils"
)

// PostgresCatalogRepository persists the catalog in the wardrobe_items table
type PostgresCatalogRepository struct {
	conn *sql.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository.
// A nil conn uses the shared db.DB connection.
func NewPostgresCatalogRepository(conn *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{conn: conn}
}

// Ensure PostgresCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*PostgresCatalogRepository)(nil)

func (r *PostgresCatalogRepository) database() *sql.DB {
	if r.conn != nil {
		return r.conn
	}
	return db.DB
}

// LoadCatalog retrieves all wardrobe items in insertion order
func (r *PostgresCatalogRepository) LoadCatalog(ctx context.Context) ([]models.WardrobeItem, error) {
	query := `
		SELECT id, image_ref, category, tags, created_at
		FROM wardrobe_items
		ORDER BY position ASC
	`

	rows, err := r.database().QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error querying wardrobe items: %v", err)
		return nil, fmt.Errorf("failed to query wardrobe items: %w", err)
	}
	defer rows.Close()

	var items []models.WardrobeItem
	for rows.Next() {
		var item models.WardrobeItem
		var category, tags string
		if err := rows.Scan(&item.ID, &item.ImageRef, &category, &tags, &item.CreatedAt); err != nil {
			log.Printf("❌ Error scanning wardrobe item: %v", err)
			return nil, fmt.Errorf("failed to scan wardrobe item: %w", err)
		}
		item.Category = models.Category(category)
		item.Tags = utils.DecodeTags(tags)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating wardrobe items: %v", err)
		return nil, fmt.Errorf("failed to iterate wardrobe items: %w", err)
	}

	log.Printf("✓ Successfully fetched %d wardrobe items", len(items))
	return items, nil
}

// SaveCatalog replaces the stored catalog with items in a single transaction
func (r *PostgresCatalogRepository) SaveCatalog(ctx context.Context, items []models.WardrobeItem) error {
	tx, err := r.database().BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ Error starting transaction: %v", err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wardrobe_items`); err != nil {
		log.Printf("❌ Error clearing wardrobe items: %v", err)
		return fmt.Errorf("failed to clear wardrobe items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wardrobe_items (id, position, image_ref, category, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx,
			item.ID,
			i,
			item.ImageRef,
			string(item.Category),
			utils.EncodeTags(item.Tags),
			item.CreatedAt,
		); err != nil {
			log.Printf("❌ Error inserting wardrobe item %s: %v", item.ID, err)
			return fmt.Errorf("failed to insert wardrobe item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ Error committing transaction: %v", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("💾 Saved %d wardrobe items", len(items))
	return nil
}
