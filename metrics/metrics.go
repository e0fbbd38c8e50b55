package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_recommendations_total",
			Help: "Total number of outfit recommendation requests by outcome",
		},
		[]string{"outcome"}, // "complete", "partial", "invalid_query"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wardrobe_recommendation_duration_seconds",
			Help:    "Duration of outfit recommendation requests in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	CategoryPicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_category_picks_total",
			Help: "Per-category recommendation results",
		},
		[]string{"category", "result"}, // result: "picked", "no_candidate"
	)

	PickScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wardrobe_pick_score",
			Help:    "Cosine similarity of the selected item per category",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"category"},
	)

	// Catalog metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wardrobe_catalog_items",
			Help: "Current number of items in the wardrobe catalog",
		},
	)

	CatalogMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_catalog_mutations_total",
			Help: "Total number of catalog mutations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// Image metrics
	ImageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_image_cache_hits_total",
			Help: "Total number of optimized image cache hits",
		},
	)

	ImageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_image_cache_misses_total",
			Help: "Total number of optimized image cache misses",
		},
	)
)

// RecordCatalogMutation records a catalog mutation outcome
func RecordCatalogMutation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CatalogMutations.WithLabelValues(operation, status).Inc()
}
