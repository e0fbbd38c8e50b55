package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/models"
	"wardrobe-stylist/utils"
)

var csvHeader = []string{"id", "image_ref", "category", "tags", "created_at"}

// legacyNamespace seeds the name-based ids minted for rows of the old exporter
var legacyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:wardrobe-stylist:legacy-catalog"))

// CSVCatalogRepository persists the catalog to a single CSV file
type CSVCatalogRepository struct {
	path string
}

// NewCSVCatalogRepository creates a new CSVCatalogRepository for the given file path
func NewCSVCatalogRepository(path string) *CSVCatalogRepository {
	return &CSVCatalogRepository{path: path}
}

// Ensure CSVCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CSVCatalogRepository)(nil)

// LoadCatalog reads every row of the catalog file. A missing file is an empty catalog.
// Files written by the old exporter (filename,category,tags) are accepted: each row gets an
// id derived from its line and file name, and the file is rewritten in the current format.
func (r *CSVCatalogRepository) LoadCatalog(ctx context.Context) ([]models.WardrobeItem, error) {
	items, legacy, err := r.readCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if legacy && len(items) > 0 {
		if err := r.SaveCatalog(ctx, items); err != nil {
			log.Printf("⚠️  Warning: failed to migrate legacy catalog %s: %v", r.path, err)
		} else {
			log.Printf("🔄 Migrated legacy catalog %s (%d items)", r.path, len(items))
		}
	}
	return items, nil
}

func (r *CSVCatalogRepository) readCatalog(ctx context.Context) ([]models.WardrobeItem, bool, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  Catalog file %s not found, starting with an empty wardrobe", r.path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	_, legacy := columns["filename"]
	if !legacy {
		for _, name := range csvHeader {
			if _, ok := columns[name]; !ok {
				return nil, false, fmt.Errorf("catalog file %s: missing column %q", r.path, name)
			}
		}
	}

	var items []models.WardrobeItem
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, false, fmt.Errorf("failed to read catalog line %d: %w", line, err)
		}

		item, err := parseRecord(record, columns, legacy, line)
		if err != nil {
			return nil, false, fmt.Errorf("catalog line %d: %w", line, err)
		}
		items = append(items, item)
	}

	log.Printf("✓ Loaded %d wardrobe items from %s", len(items), r.path)
	return items, legacy, nil
}

// SaveCatalog rewrites the catalog file atomically
func (r *CSVCatalogRepository) SaveCatalog(ctx context.Context, items []models.WardrobeItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wardrobe-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.ID,
			item.ImageRef,
			string(item.Category),
			utils.EncodeTags(item.Tags),
			item.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write catalog row %s: %w", item.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush catalog file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close catalog file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}

func parseRecord(record []string, columns map[string]int, legacy bool, line int) (models.WardrobeItem, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var item models.WardrobeItem
	category, ok := models.ParseCategory(field("category"))
	if !ok {
		return item, fmt.Errorf("invalid category %q", field("category"))
	}
	item.Category = category
	item.Tags = utils.DecodeTags(field("tags"))

	if legacy {
		item.ImageRef = field("filename")
		item.ID = uuid.NewSHA1(legacyNamespace, []byte(fmt.Sprintf("%d:%s", line, item.ImageRef))).String()
		item.CreatedAt = time.Now().UTC()
		return item, nil
	}

	item.ID = field("id")
	item.ImageRef = field("image_ref")
	if raw := field("created_at"); raw != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return item, fmt.Errorf("invalid created_at %q: %w", raw, err)
		}
		item.CreatedAt = createdAt
	}
	return item, nil
}
