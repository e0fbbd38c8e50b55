package models

// CategoryPick is the recommender's choice for one category.
// Found=false is the "no candidate" marker and Score is then meaningless.
type CategoryPick struct {
	Category Category      `json:"category"`
	Item     *WardrobeItem `json:"item,omitempty"`
	Score    float64       `json:"score"`
	Found    bool          `json:"found"`
}

// OutfitRecommendation holds one pick per requested category
type OutfitRecommendation struct {
	Tags  []string       `json:"tags"`
	Picks []CategoryPick `json:"picks"`
}

// Pick returns the pick for a category
func (o *OutfitRecommendation) Pick(category Category) (CategoryPick, bool) {
	for _, p := range o.Picks {
		if p.Category == category {
			return p, true
		}
	}
	return CategoryPick{}, false
}

// Complete reports whether every requested category has a selected item
func (o *OutfitRecommendation) Complete() bool {
	return len(o.Missing()) == 0
}

// Missing returns the categories without a candidate
func (o *OutfitRecommendation) Missing() []Category {
	var missing []Category
	for _, p := range o.Picks {
		if !p.Found {
			missing = append(missing, p.Category)
		}
	}
	return missing
}
