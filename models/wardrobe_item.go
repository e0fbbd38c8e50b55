package models

import (
	"strings"
	"time"
)

// Category is one of the fixed wardrobe categories
type Category string

const (
	CategoryShirt Category = "Shirt"
	CategoryPants Category = "Pants"
	CategoryShoes Category = "Shoes"
)

// Categories is the fixed category set in outfit order
var Categories = []Category{CategoryShirt, CategoryPants, CategoryShoes}

// ParseCategory matches a category name case-insensitively (e.g. "shirt" -> Shirt)
func ParseCategory(s string) (Category, bool) {
	trimmed := strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c belongs to the fixed category set
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// WardrobeItem represents a single clothing item in the wardrobe catalog
type WardrobeItem struct {
	ID        string    `json:"id"`
	ImageRef  string    `json:"imageRef"`
	Category  Category  `json:"category" validate:"required,oneof=Shirt Pants Shoes"`
	Tags      []string  `json:"tags" validate:"dive,required,max=64"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the item
func (i WardrobeItem) Clone() WardrobeItem {
	out := i
	if i.Tags != nil {
		out.Tags = append([]string(nil), i.Tags...)
	}
	return out
}

// ItemUpdate carries the fields to change on an existing item; nil fields are left untouched
type ItemUpdate struct {
	Category *Category `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	ImageRef *string   `json:"imageRef,omitempty"`
}
