// Package recommend picks one wardrobe item per category whose tags best
// match a set of preferred style tags.
//
// Every call builds a fresh vocabulary per category from that category's
// item tags plus the query, vectorizes with token counts and scores each
// candidate with cosine similarity. Nothing is cached between calls, so the
// cost is O(items x tags) per request, which is fine for a personal wardrobe.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/metrics"
	"wardrobe-stylist/models"
	"wardrobe-stylist/utils"
)

// ErrInvalidQuery is returned when no preferred tag was given
var ErrInvalidQuery = errors.New("please select at least one tag")

// CatalogSource is the read side of the catalog the recommender needs
type CatalogSource interface {
	ListByCategory(category models.Category) []models.WardrobeItem
}

// ScoredItem is a candidate with its similarity to the query
type ScoredItem struct {
	Item  models.WardrobeItem `json:"item"`
	Score float64             `json:"score"`
}

// Recommender builds outfits from a catalog
type Recommender struct {
	logger *log.Entry
}

// Option configures a Recommender
type Option func(*Recommender)

// WithLogger sets the logger used for per-call diagnostics
func WithLogger(logger *log.Entry) Option {
	return func(r *Recommender) {
		r.logger = logger
	}
}

// New creates a Recommender
func New(opts ...Option) *Recommender {
	r := &Recommender{logger: log.WithField("component", "recommender")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend selects the best matching item for each category.
// A nil or empty categories slice means every category in models.Categories.
// Categories without items are reported with Found=false; the call itself
// only fails when userTags is empty.
func (r *Recommender) Recommend(ctx context.Context, source CatalogSource, categories []models.Category, userTags []string) (*models.OutfitRecommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	}()

	query := utils.NormalizeTags(userTags)
	if len(query) == 0 {
		metrics.RecommendationsTotal.WithLabelValues("invalid_query").Inc()
		return nil, ErrInvalidQuery
	}
	if len(categories) == 0 {
		categories = models.Categories
	}

	outfit := &models.OutfitRecommendation{
		Tags:  query,
		Picks: make([]models.CategoryPick, 0, len(categories)),
	}

	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !category.Valid() {
			return nil, fmt.Errorf("unknown category %q: %w", category, ErrInvalidQuery)
		}

		pick := r.pickCategory(category, source.ListByCategory(category), query)
		outfit.Picks = append(outfit.Picks, pick)
	}

	outcome := "complete"
	if !outfit.Complete() {
		outcome = "partial"
	}
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()
	return outfit, nil
}

func (r *Recommender) pickCategory(category models.Category, items []models.WardrobeItem, query []string) models.CategoryPick {
	pick := models.CategoryPick{Category: category}
	fields := log.Fields{"category": category, "candidates": len(items)}

	scored, err := r.ScoreCategory(items, query)
	if err != nil || len(scored) == 0 {
		if err != nil && !errors.Is(err, ErrEmptyVocabulary) {
			fields["error"] = err
		}
		r.logger.WithFields(fields).Info("⚠️  No candidate for category")
		metrics.CategoryPicks.WithLabelValues(string(category), "no_candidate").Inc()
		return pick
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		// strict comparison keeps the earliest item among ties
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}

	item := scored[best].Item
	pick.Item = &item
	pick.Score = scored[best].Score
	pick.Found = true

	fields["id"] = item.ID
	fields["score"] = pick.Score
	r.logger.WithFields(fields).Info("✓ Category pick selected")
	metrics.CategoryPicks.WithLabelValues(string(category), "picked").Inc()
	metrics.PickScore.WithLabelValues(string(category)).Observe(pick.Score)
	return pick
}

// ScoreCategory scores every item against the query tags, keeping item order
func (r *Recommender) ScoreCategory(items []models.WardrobeItem, userTags []string) ([]ScoredItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	candidates := make([][]string, len(items))
	for i, item := range items {
		candidates[i] = item.Tags
	}

	_, itemVectors, queryVector, err := Vectorize(candidates, userTags)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredItem, len(items))
	for i, item := range items {
		scored[i] = ScoredItem{
			Item:  item,
			Score: CosineSimilarity(queryVector, itemVectors[i]),
		}
	}
	return scored, nil
}
