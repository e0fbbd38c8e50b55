package service

import (
	"context"
	"errors"
)

// ErrImageNotFound is returned when an image reference cannot be resolved
var ErrImageNotFound = errors.New("image not found")

// ImageStoreInterface defines the contract for storing uploaded wardrobe images
type ImageStoreInterface interface {
	// Store saves the image and returns an opaque reference to it
	Store(ctx context.Context, data []byte, suggestedName string) (string, error)
	Resolve(ctx context.Context, ref string) ([]byte, error)
	Remove(ctx context.Context, ref string) error
}
