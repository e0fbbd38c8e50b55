// Package catalog holds the in-memory wardrobe catalog.
//
// Items are addressed by a stable id that is never reused. Every mutation is
// flushed to the configured Persister before it becomes visible; reads hand
// out copies so callers never observe a half-applied update.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/models"
	"wardrobe-stylist/utils"
	"wardrobe-stylist/validation"
)

var (
	ErrValidation = errors.New("invalid wardrobe item")
	ErrNotFound   = errors.New("wardrobe item not found")
)

// Persister loads and saves the whole catalog
type Persister interface {
	LoadCatalog(ctx context.Context) ([]models.WardrobeItem, error)
	SaveCatalog(ctx context.Context, items []models.WardrobeItem) error
}

// Store is the process-local wardrobe catalog
type Store struct {
	mu        sync.RWMutex
	items     []models.WardrobeItem
	index     map[string]int
	issued    map[string]bool // every id ever handed out, deleted ones included
	persister Persister
	newID     func() string
	now       func() time.Time
}

// New builds a Store from the persisted catalog
func New(ctx context.Context, persister Persister) (*Store, error) {
	s := NewInMemory()
	s.persister = persister
	if persister == nil {
		return s, nil
	}

	loaded, err := persister.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, item := range loaded {
		item.Tags = utils.NormalizeTags(item.Tags)
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("loaded item %s: %w", item.ID, err)
		}
		if item.ID == "" {
			return nil, fmt.Errorf("loaded item without id: %w", ErrValidation)
		}
		if _, dup := s.index[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %s: %w", item.ID, ErrValidation)
		}
		s.index[item.ID] = len(s.items)
		s.issued[item.ID] = true
		s.items = append(s.items, item.Clone())
	}

	log.Printf("✓ Catalog loaded with %d items", len(s.items))
	return s, nil
}

// NewInMemory builds an empty Store that is never flushed
func NewInMemory() *Store {
	return &Store{
		index:  make(map[string]int),
		issued: make(map[string]bool),
		newID:  func() string { return uuid.NewString() },
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Add validates the item, assigns it a fresh id and appends it to the catalog
func (s *Store) Add(ctx context.Context, item models.WardrobeItem) (string, error) {
	item = item.Clone()
	item.Tags = utils.NormalizeTags(item.Tags)
	if err := validateItem(item); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.newID()
	for s.issued[item.ID] {
		item.ID = s.newID()
	}
	item.CreatedAt = s.now()

	s.index[item.ID] = len(s.items)
	s.items = append(s.items, item)
	s.issued[item.ID] = true

	if err := s.flush(ctx); err != nil {
		s.items = s.items[:len(s.items)-1]
		delete(s.index, item.ID)
		return "", err
	}

	log.WithFields(log.Fields{"id": item.ID, "category": item.Category, "tags": item.Tags}).Info("➕ Wardrobe item added")
	return item.ID, nil
}

// Update applies the non-nil fields of upd to the item with the given id
func (s *Store) Update(ctx context.Context, id string, upd models.ItemUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	previous := s.items[pos]
	next := previous.Clone()
	if upd.Category != nil {
		next.Category = *upd.Category
	}
	if upd.Tags != nil {
		next.Tags = utils.NormalizeTags(*upd.Tags)
	}
	if upd.ImageRef != nil {
		next.ImageRef = *upd.ImageRef
	}
	if err := validateItem(next); err != nil {
		return err
	}

	s.items[pos] = next
	if err := s.flush(ctx); err != nil {
		s.items[pos] = previous
		return err
	}

	log.WithFields(log.Fields{"id": id, "category": next.Category, "tags": next.Tags}).Info("✏️  Wardrobe item updated")
	return nil
}

// Delete removes the item with the given id and returns it
func (s *Store) Delete(ctx context.Context, id string) (models.WardrobeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return models.WardrobeItem{}, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	previous := s.items
	removed := s.items[pos]

	items := make([]models.WardrobeItem, 0, len(s.items)-1)
	items = append(items, s.items[:pos]...)
	items = append(items, s.items[pos+1:]...)
	s.items = items
	s.reindex()

	if err := s.flush(ctx); err != nil {
		s.items = previous
		s.reindex()
		return models.WardrobeItem{}, err
	}

	log.WithFields(log.Fields{"id": id, "category": removed.Category}).Info("🗑️  Wardrobe item deleted")
	return removed.Clone(), nil
}

// Get returns a copy of the item with the given id
func (s *Store) Get(id string) (models.WardrobeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return models.WardrobeItem{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return s.items[pos].Clone(), nil
}

// List returns a snapshot of the whole catalog in insertion order
func (s *Store) List() []models.WardrobeItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WardrobeItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

// ListByCategory returns the items of one category in insertion order
func (s *Store) ListByCategory(category models.Category) []models.WardrobeItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.WardrobeItem
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item.Clone())
		}
	}
	return out
}

// AllTags returns the sorted union of every item's tags
func (s *Store) AllTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, item := range s.items {
		for _, t := range item.Tags {
			seen[utils.NormalizeTag(t)] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		if t != "" {
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of items in the catalog
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// flush must be called with the write lock held
func (s *Store) flush(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	snapshot := make([]models.WardrobeItem, len(s.items))
	for i, item := range s.items {
		snapshot[i] = item.Clone()
	}
	if err := s.persister.SaveCatalog(ctx, snapshot); err != nil {
		log.Printf("❌ Error saving catalog: %v", err)
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, item := range s.items {
		s.index[item.ID] = i
	}
}

func validateItem(item models.WardrobeItem) error {
	if !item.Category.Valid() {
		return fmt.Errorf("category %q must be one of %s: %w", item.Category, categoryNames(), ErrValidation)
	}
	if err := validation.Struct(item); err != nil {
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}
	return nil
}

func categoryNames() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
