package app

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/app/controller"
	"wardrobe-stylist/app/router"
	"wardrobe-stylist/catalog"
	"wardrobe-stylist/config"
	"wardrobe-stylist/db"
	"wardrobe-stylist/recommend"
	"wardrobe-stylist/repository"
	"wardrobe-stylist/service"
)

// App holds the wired application
type App struct {
	Wardrobe *service.WardrobeService
	Lookbook *service.LookbookService
	Importer *service.ImportService
	Mux      *http.ServeMux
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize catalog persistence
	var repo repository.CatalogRepositoryInterface
	switch cfg.CatalogBackend {
	case config.BackendPostgres:
		if err := db.InitDB(ctx, cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = repository.NewPostgresCatalogRepository(nil)
	default:
		repo = repository.NewCSVCatalogRepository(cfg.DataPath)
	}

	store, err := catalog.New(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Printf("👕 Catalog loaded (%s backend): %d items", cfg.CatalogBackend, store.Len())

	// Initialize image storage
	var images service.ImageStoreInterface
	switch cfg.ImageBackend {
	case config.ImagesDrive:
		images, err = service.NewDriveImageStore(ctx, cfg.CredentialsPath, cfg.DriveFolderID)
	default:
		images, err = service.NewLocalImageStore(cfg.ImageFolder)
	}
	if err != nil {
		return nil, err
	}

	thumbnails, err := service.NewThumbnailCache(cfg.CacheDir)
	if err != nil {
		log.Printf("⚠️  Warning: thumbnail cache disabled: %v", err)
		thumbnails = nil
	}

	recommender := recommend.New(recommend.WithLogger(log.WithField("component", "recommender")))

	wardrobe := service.NewWardrobeService(store, images, thumbnails, recommender)
	lookbook := service.NewLookbookService(wardrobe, cfg.BaseURL, cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Wardrobe: controller.NewWardrobeController(wardrobe, lookbook),
	}

	// Setup routes using standard http router
	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{
		Wardrobe: wardrobe,
		Lookbook: lookbook,
		Importer: service.NewImportService(wardrobe),
		Mux:      mux,
	}, nil
}
