package models

// UpdateItemRequest represents the request body for editing a wardrobe item
type UpdateItemRequest struct {
	Category *string   `json:"category,omitempty" validate:"omitempty,category"`
	Tags     *[]string `json:"tags,omitempty"`
	// TagsInput is the comma-separated form input; used when Tags is absent
	TagsInput *string `json:"tagsInput,omitempty"`
}

// RecommendRequest represents the request body for the outfit predictor
type RecommendRequest struct {
	Tags       []string `json:"tags"`
	Categories []string `json:"categories,omitempty" validate:"dive,category"`
}

// RecommendResponse is the outfit predictor result returned to the client
type RecommendResponse struct {
	Outfit   *OutfitRecommendation `json:"outfit"`
	Complete bool                  `json:"complete"`
	Missing  []Category            `json:"missing"`
	Message  string                `json:"message"`
}

// CategoryGroup lists the items of one category
type CategoryGroup struct {
	Category Category       `json:"category"`
	Items    []WardrobeItem `json:"items"`
}

// WardrobeListResponse is the wardrobe grouped by category
type WardrobeListResponse struct {
	Groups []CategoryGroup `json:"groups"`
	Total  int             `json:"total"`
}

// TagsResponse lists all tags known to the catalog
type TagsResponse struct {
	Tags []string `json:"tags"`
}
