package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/catalog"
	"wardrobe-stylist/models"
	"wardrobe-stylist/recommend"
	"wardrobe-stylist/service"
	"wardrobe-stylist/utils"
	"wardrobe-stylist/validation"
)

const maxUploadSize = 32 << 20

// WardrobeController handles HTTP requests for the wardrobe and the outfit predictor
type WardrobeController struct {
	service  service.WardrobeServiceInterface
	lookbook *service.LookbookService
}

// NewWardrobeController creates a new WardrobeController. lookbook may be nil.
func NewWardrobeController(svc service.WardrobeServiceInterface, lookbook *service.LookbookService) *WardrobeController {
	return &WardrobeController{
		service:  svc,
		lookbook: lookbook,
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, recommend.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, service.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, recommend.ErrEmptyVocabulary):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, handler string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s: %v", handler, err)
	} else {
		log.Debugf("%s: %v", handler, err)
	}

	message := err.Error()
	if err == recommend.ErrInvalidQuery {
		message = "Please select at least one tag."
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// ListItems handles GET /wardrobe/items
// Optional query param: category
func (c *WardrobeController) ListItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := c.service.ListWardrobe(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, "ListItems", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddItem handles POST /wardrobe/items
// Multipart form fields: image (file), category, tags (comma-separated)
func (c *WardrobeController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddItem: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "AddItem", fmt.Errorf("invalid multipart form: %v: %w", err, catalog.ErrValidation))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, "AddItem", fmt.Errorf("image is required: %w", catalog.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "AddItem", fmt.Errorf("failed to read image: %w", err))
		return
	}

	item, err := c.service.AddItem(r.Context(), service.AddItemInput{
		Image:     data,
		FileName:  header.Filename,
		Category:  r.FormValue("category"),
		TagsInput: r.FormValue("tags"),
	})
	if err != nil {
		writeError(w, "AddItem", err)
		return
	}

	log.Printf("✅ AddItem: Added %s item %s (%d tags)", item.Category, item.ID, len(item.Tags))
	writeJSON(w, http.StatusCreated, item)
}

// GetItem handles GET /wardrobe/items/{id}
func (c *WardrobeController) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := c.service.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, "GetItem", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /wardrobe/items/{id}
// Body: {"category": "...", "tags": [...]} or {"tagsInput": "a, b"}
func (c *WardrobeController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "UpdateItem", fmt.Errorf("invalid request body: %v: %w", err, catalog.ErrValidation))
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, "UpdateItem", fmt.Errorf("%v: %w", err, catalog.ErrValidation))
		return
	}

	item, err := c.service.UpdateItem(r.Context(), id, req)
	if err != nil {
		writeError(w, "UpdateItem", err)
		return
	}

	log.Printf("✅ UpdateItem: Updated item %s", id)
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /wardrobe/items/{id}
func (c *WardrobeController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.service.DeleteItem(r.Context(), id); err != nil {
		writeError(w, "DeleteItem", err)
		return
	}

	log.Printf("🗑️  DeleteItem: Deleted item %s", id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Item deleted successfully",
		"id":      id,
	})
}

// GetItemImage handles GET /wardrobe/items/{id}/image
// Optional query param: size (thumb, medium, original)
func (c *WardrobeController) GetItemImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	size := service.ParseImageSize(r.URL.Query().Get("size"))
	data, err := c.service.ItemImage(r.Context(), r.PathValue("id"), size)
	if err != nil {
		writeError(w, "GetItemImage", err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListTags handles GET /wardrobe/tags
func (c *WardrobeController) ListTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, models.TagsResponse{Tags: c.service.AllTags(r.Context())})
}

// Recommend handles POST /wardrobe/recommend
// Body: {"tags": [...], "categories": [...]}
func (c *WardrobeController) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Recommend", fmt.Errorf("invalid request body: %v: %w", err, catalog.ErrValidation))
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, "Recommend", fmt.Errorf("%v: %w", err, recommend.ErrInvalidQuery))
		return
	}

	resp, err := c.service.Recommend(r.Context(), req)
	if err != nil {
		writeError(w, "Recommend", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RenderLookbook handles GET /wardrobe/lookbook/render
// Optional query param: tags (comma-separated) adds a recommended outfit page
func (c *WardrobeController) RenderLookbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.lookbook == nil {
		http.Error(w, "Lookbook is not configured", http.StatusNotFound)
		return
	}

	html, err := c.lookbook.RenderHTML(r.Context(), utils.ParseTagsInput(r.URL.Query().Get("tags")))
	if err != nil {
		writeError(w, "RenderLookbook", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// DownloadLookbook handles GET /wardrobe/lookbook.pdf
func (c *WardrobeController) DownloadLookbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.lookbook == nil {
		http.Error(w, "Lookbook is not configured", http.StatusNotFound)
		return
	}

	pdf, err := c.lookbook.GeneratePDF(r.Context(), utils.ParseTagsInput(r.URL.Query().Get("tags")))
	if err != nil {
		writeError(w, "DownloadLookbook", err)
		return
	}

	filename := fmt.Sprintf("lookbook_%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
