package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/catalog"
	"wardrobe-stylist/metrics"
	"wardrobe-stylist/models"
	"wardrobe-stylist/recommend"
	"wardrobe-stylist/utils"
)

// AddItemInput describes a new upload
type AddItemInput struct {
	Image    []byte
	FileName string
	Category string
	// Tags wins over TagsInput when both are set
	Tags      []string
	TagsInput string
}

// WardrobeService ties the catalog, the image store and the recommender together
type WardrobeService struct {
	catalog     *catalog.Store
	images      ImageStoreInterface
	thumbnails  *ThumbnailCache
	recommender *recommend.Recommender
}

// NewWardrobeService creates a new WardrobeService. thumbnails may be nil.
func NewWardrobeService(store *catalog.Store, images ImageStoreInterface, thumbnails *ThumbnailCache, recommender *recommend.Recommender) *WardrobeService {
	metrics.CatalogItems.Set(float64(store.Len()))
	return &WardrobeService{
		catalog:     store,
		images:      images,
		thumbnails:  thumbnails,
		recommender: recommender,
	}
}

// Ensure WardrobeService implements WardrobeServiceInterface
var _ WardrobeServiceInterface = (*WardrobeService)(nil)

// AddItem stores the uploaded image and adds the item to the catalog
func (s *WardrobeService) AddItem(ctx context.Context, in AddItemInput) (models.WardrobeItem, error) {
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return models.WardrobeItem{}, fmt.Errorf("category %q must be one of Shirt, Pants, Shoes: %w", in.Category, catalog.ErrValidation)
	}
	tags := in.Tags
	if tags == nil {
		tags = utils.ParseTagsInput(in.TagsInput)
	}
	if len(in.Image) == 0 {
		return models.WardrobeItem{}, fmt.Errorf("image is required: %w", catalog.ErrValidation)
	}
	if !utils.IsImageFileName(in.FileName) {
		return models.WardrobeItem{}, fmt.Errorf("image %q must be a .jpg, .jpeg or .png file: %w", in.FileName, catalog.ErrValidation)
	}
	if err := ValidateImage(in.Image); err != nil {
		return models.WardrobeItem{}, fmt.Errorf("%v: %w", err, catalog.ErrValidation)
	}

	ref, err := s.images.Store(ctx, in.Image, in.FileName)
	if err != nil {
		return models.WardrobeItem{}, fmt.Errorf("failed to store image: %w", err)
	}

	id, err := s.catalog.Add(ctx, models.WardrobeItem{
		ImageRef: ref,
		Category: category,
		Tags:     tags,
	})
	metrics.RecordCatalogMutation("add", err)
	if err != nil {
		if rmErr := s.images.Remove(ctx, ref); rmErr != nil {
			log.Printf("⚠️  Warning: failed to remove orphaned image %s: %v", ref, rmErr)
		}
		return models.WardrobeItem{}, err
	}
	metrics.CatalogItems.Set(float64(s.catalog.Len()))

	return s.catalog.Get(id)
}

// UpdateItem changes category and/or tags of an item
func (s *WardrobeService) UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) (models.WardrobeItem, error) {
	var upd models.ItemUpdate
	if req.Category != nil {
		category, ok := models.ParseCategory(*req.Category)
		if !ok {
			return models.WardrobeItem{}, fmt.Errorf("category %q must be one of Shirt, Pants, Shoes: %w", *req.Category, catalog.ErrValidation)
		}
		upd.Category = &category
	}
	switch {
	case req.Tags != nil:
		upd.Tags = req.Tags
	case req.TagsInput != nil:
		tags := utils.ParseTagsInput(*req.TagsInput)
		upd.Tags = &tags
	}

	err := s.catalog.Update(ctx, id, upd)
	metrics.RecordCatalogMutation("update", err)
	if err != nil {
		return models.WardrobeItem{}, err
	}
	return s.catalog.Get(id)
}

// DeleteItem removes the item and then its image. Image cleanup failures are only logged.
func (s *WardrobeService) DeleteItem(ctx context.Context, id string) error {
	removed, err := s.catalog.Delete(ctx, id)
	metrics.RecordCatalogMutation("delete", err)
	if err != nil {
		return err
	}
	metrics.CatalogItems.Set(float64(s.catalog.Len()))

	if removed.ImageRef != "" {
		if err := s.images.Remove(ctx, removed.ImageRef); err != nil {
			log.Printf("⚠️  Warning: failed to remove image %s of item %s: %v", removed.ImageRef, id, err)
		}
		if s.thumbnails != nil {
			s.thumbnails.Invalidate(removed.ImageRef)
		}
	}
	return nil
}

// GetItem returns one item
func (s *WardrobeService) GetItem(ctx context.Context, id string) (models.WardrobeItem, error) {
	return s.catalog.Get(id)
}

// ListWardrobe returns the wardrobe grouped by category.
// A non-empty filter restricts the result to that category.
func (s *WardrobeService) ListWardrobe(ctx context.Context, filter string) (*models.WardrobeListResponse, error) {
	categories := models.Categories
	if filter != "" {
		category, ok := models.ParseCategory(filter)
		if !ok {
			return nil, fmt.Errorf("unknown category %q: %w", filter, catalog.ErrValidation)
		}
		categories = []models.Category{category}
	}

	resp := &models.WardrobeListResponse{Groups: make([]models.CategoryGroup, 0, len(categories))}
	for _, category := range categories {
		items := s.catalog.ListByCategory(category)
		if items == nil {
			items = []models.WardrobeItem{}
		}
		resp.Groups = append(resp.Groups, models.CategoryGroup{Category: category, Items: items})
		resp.Total += len(items)
	}
	return resp, nil
}

// AllTags returns every tag in the wardrobe, sorted
func (s *WardrobeService) AllTags(ctx context.Context) []string {
	return s.catalog.AllTags()
}

// Recommend runs the outfit predictor
func (s *WardrobeService) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error) {
	var categories []models.Category
	for _, name := range req.Categories {
		category, ok := models.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q: %w", name, recommend.ErrInvalidQuery)
		}
		categories = append(categories, category)
	}

	outfit, err := s.recommender.Recommend(ctx, s.catalog, categories, req.Tags)
	if err != nil {
		return nil, err
	}

	resp := &models.RecommendResponse{
		Outfit:   outfit,
		Complete: outfit.Complete(),
		Missing:  outfit.Missing(),
		Message:  "Recommended Outfit",
	}
	if !resp.Complete {
		resp.Message = "Some wardrobe items are missing in one or more categories."
	}
	if resp.Missing == nil {
		resp.Missing = []models.Category{}
	}
	return resp, nil
}

// ItemImage returns the image of an item in the requested size
func (s *WardrobeService) ItemImage(ctx context.Context, id string, size ImageSize) ([]byte, error) {
	item, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}

	load := func() ([]byte, error) {
		return s.images.Resolve(ctx, item.ImageRef)
	}
	if size == SizeOriginal || s.thumbnails == nil {
		return load()
	}
	return s.thumbnails.Get(item.ImageRef, size, load)
}
