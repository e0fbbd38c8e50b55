package service

import (
	"context"

	"wardrobe-stylist/models"
)

// WardrobeServiceInterface defines the operations the presentation layer calls
type WardrobeServiceInterface interface {
	AddItem(ctx context.Context, in AddItemInput) (models.WardrobeItem, error)
	UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) (models.WardrobeItem, error)
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (models.WardrobeItem, error)
	ListWardrobe(ctx context.Context, filter string) (*models.WardrobeListResponse, error)
	AllTags(ctx context.Context) []string
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error)
	ItemImage(ctx context.Context, id string, size ImageSize) ([]byte, error)
}
