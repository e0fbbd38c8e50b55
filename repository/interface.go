package repository

import (
	"context"

	"wardrobe-stylist/models"
)

// CatalogRepositoryInterface defines the contract for wardrobe catalog persistence
type CatalogRepositoryInterface interface {
	LoadCatalog(ctx context.Context) ([]models.WardrobeItem, error)
	SaveCatalog(ctx context.Context, items []models.WardrobeItem) error
}
