package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/utils"
)

// LocalImageStore keeps uploaded images as files in one folder.
// The reference is the stored file name.
type LocalImageStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalImageStore creates the image folder if needed
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image folder: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Ensure LocalImageStore implements ImageStoreInterface
var _ ImageStoreInterface = (*LocalImageStore)(nil)

// Store writes the image under a sanitized, collision-free name
func (s *LocalImageStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateImage(data); err != nil {
		return "", err
	}
	name, err := utils.SanitizeImageFileName(suggestedName)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := name
	for n := 1; ; n++ {
		f, err := os.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			candidate = utils.WithNameSuffix(name, n)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create image file: %w", err)
		}
		if err := writeImageFile(f, data); err != nil {
			return "", err
		}
		break
	}

	log.Printf("🖼️  Image stored: %s (%d bytes)", candidate, len(data))
	return candidate, nil
}

type imageFile interface {
	io.Writer
	Close() error
	Name() string
}

// writeImageFile writes and closes f; on any failure the file is removed so its name is free again
func writeImageFile(f imageFile, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to close image file: %w", err)
	}
	return nil
}

// Resolve reads the image bytes for a reference
func (s *LocalImageStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	path, err := s.pathFor(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ref, ErrImageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", ref, err)
	}
	return data, nil
}

// Remove deletes the image file; a missing file is not an error
func (s *LocalImageStore) Remove(ctx context.Context, ref string) error {
	path, err := s.pathFor(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image %s: %w", ref, err)
	}
	return nil
}

// pathFor refuses references that would escape the image folder
func (s *LocalImageStore) pathFor(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return "", fmt.Errorf("invalid image reference %q: %w", ref, ErrImageNotFound)
	}
	return filepath.Join(s.dir, ref), nil
}
