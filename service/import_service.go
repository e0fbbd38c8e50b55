package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/models"
	"wardrobe-stylist/utils"
)

// ImportStats reports the outcome of an import or export run
type ImportStats struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// ImportService bulk-loads images from a folder into the wardrobe
// and exports the wardrobe images back to a folder
type ImportService struct {
	wardrobe WardrobeServiceInterface
}

// NewImportService creates a new ImportService
func NewImportService(wardrobe WardrobeServiceInterface) *ImportService {
	return &ImportService{wardrobe: wardrobe}
}

// ImportFolder adds every image in dir as a wardrobe item. Category and tags come from the
// file name (see utils.ParseItemFileName); defaultCategory is used when the name has no valid
// category. Files whose sanitized name is already an image reference in the catalog are skipped.
func (s *ImportService) ImportFolder(ctx context.Context, dir, defaultCategory string) (*ImportStats, error) {
	log.Printf("🔄 Starting import from folder: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read import folder: %w", err)
	}

	existing, err := s.imageRefs(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && utils.IsImageFileName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	stats := &ImportStats{Total: len(names)}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		sanitized, _ := utils.SanitizeImageFileName(name)
		if existing[sanitized] {
			log.Printf("⏭️  Skipping %s (already in the wardrobe)", name)
			stats.Skipped++
			continue
		}

		categoryName, tags, err := utils.ParseItemFileName(name)
		if _, ok := models.ParseCategory(categoryName); err != nil || !ok {
			categoryName = defaultCategory
		}
		if _, ok := models.ParseCategory(categoryName); !ok {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: no category in file name and no default category", name))
			continue
		}
		if tags == nil {
			tags = []string{}
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		item, err := s.wardrobe.AddItem(ctx, AddItemInput{
			Image:    data,
			FileName: name,
			Category: categoryName,
			Tags:     tags,
		})
		if err != nil {
			errorMsg := fmt.Sprintf("%s: %v", name, err)
			log.Printf("❌ %s", errorMsg)
			stats.Errors = append(stats.Errors, errorMsg)
			continue
		}

		existing[item.ImageRef] = true
		log.Printf("✅ Imported %s as %s %s", name, item.Category, item.ID)
		stats.Processed++
	}

	log.Printf("🎉 Import completed: %d imported, %d skipped, %d failed out of %d images", stats.Processed, stats.Skipped, len(stats.Errors), stats.Total)
	return stats, nil
}

// ExportImages writes every item image into dir, named so that ImportFolder can read it back.
// Files already present on disk are skipped.
func (s *ImportService) ExportImages(ctx context.Context, dir string, size ImageSize) (*ImportStats, error) {
	log.Printf("📥 Starting export to folder: %s", dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export folder: %w", err)
	}

	wardrobe, err := s.wardrobe.ListWardrobe(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{Total: wardrobe.Total}
	used := make(map[string]bool)
	for _, group := range wardrobe.Groups {
		for _, item := range group.Items {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			data, err := s.wardrobe.ItemImage(ctx, item.ID, size)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", item.ID, err))
				continue
			}

			ext := ".jpg"
			if size == SizeOriginal {
				ext = filepath.Ext(item.ImageRef)
				if !utils.IsImageFileName(ext) {
					ext = ".png"
				}
			}

			base := utils.ItemFileName(string(item.Category), item.Tags, ext)
			fileName := base
			for n := 1; used[fileName]; n++ {
				fileName = utils.WithNameSuffix(base, n)
			}
			used[fileName] = true

			filePath := filepath.Join(dir, fileName)
			if _, err := os.Stat(filePath); err == nil {
				log.Printf("⏭️  Skipping %s (already exists on disk)", fileName)
				stats.Skipped++
				continue
			}

			if err := os.WriteFile(filePath, data, 0644); err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", fileName, err))
				continue
			}
			stats.Processed++
		}
	}

	log.Printf("🎉 Export completed: %d exported, %d skipped, %d failed out of %d items", stats.Processed, stats.Skipped, len(stats.Errors), stats.Total)
	return stats, nil
}

func (s *ImportService) imageRefs(ctx context.Context) (map[string]bool, error) {
	wardrobe, err := s.wardrobe.ListWardrobe(ctx, "")
	if err != nil {
		return nil, err
	}
	refs := make(map[string]bool, wardrobe.Total)
	for _, group := range wardrobe.Groups {
		for _, item := range group.Items {
			refs[item.ImageRef] = true
		}
	}
	return refs, nil
}
