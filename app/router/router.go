package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wardrobe-stylist/app/controller"
)

type Controllers struct {
	Wardrobe *controller.WardrobeController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Wardrobe items - GET lists, POST adds (multipart upload)
	mux.HandleFunc("/wardrobe/items", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Wardrobe.ListItems(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Wardrobe.AddItem(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Item by id - handles GET, PUT (update) and DELETE
	mux.HandleFunc("/wardrobe/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			controllers.Wardrobe.GetItem(w, r)
		case http.MethodPut, http.MethodPatch:
			controllers.Wardrobe.UpdateItem(w, r)
		case http.MethodDelete:
			controllers.Wardrobe.DeleteItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Item image, resized by ?size=thumb|medium|original
	mux.HandleFunc("/wardrobe/items/{id}/image", controllers.Wardrobe.GetItemImage)

	// All tags known to the catalog
	mux.HandleFunc("/wardrobe/tags", controllers.Wardrobe.ListTags)

	// Outfit predictor
	mux.HandleFunc("/wardrobe/recommend", controllers.Wardrobe.Recommend)

	// Lookbook - HTML render (used by headless Chrome) and PDF download
	mux.HandleFunc("/wardrobe/lookbook/render", controllers.Wardrobe.RenderLookbook)
	mux.HandleFunc("/wardrobe/lookbook.pdf", controllers.Wardrobe.DownloadLookbook)
}
