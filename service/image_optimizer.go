package service

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/metrics"
)

// ImageSize selects a rendition of a wardrobe image
type ImageSize string

const (
	SizeThumb    ImageSize = "thumb"
	SizeMedium   ImageSize = "medium"
	SizeOriginal ImageSize = "original"
)

const (
	qualityThumb  = 60
	qualityMedium = 75
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// ErrUnsupportedImage is returned for uploads that are not PNG or JPEG
var ErrUnsupportedImage = errors.New("unsupported image format: expected png or jpeg")

// ParseImageSize maps a query value to an ImageSize, defaulting to medium
func ParseImageSize(s string) ImageSize {
	switch ImageSize(s) {
	case SizeThumb, SizeOriginal:
		return ImageSize(s)
	default:
		return SizeMedium
	}
}

// ValidateImage checks that data decodes as a PNG or JPEG header
func ValidateImage(data []byte) error {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "png" && format != "jpeg") {
		return ErrUnsupportedImage
	}
	return nil
}

// OptimizeImage converts an image to JPEG and shrinks it so neither side exceeds the size limit
func OptimizeImage(imageData []byte, size ImageSize) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if size == SizeThumb {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var resized image.Image = img
	if width > maxDim || height > maxDim {
		// imaging.Fit keeps the aspect ratio
		resized = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		log.Debugf("🔄 Resizing image: %dx%d -> %v", width, height, resized.Bounds().Size())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	log.Debugf("✓ Image optimized: from=%s size=%s quality=%d output=%d bytes", format, size, quality, buf.Len())
	return buf.Bytes(), nil
}

// ThumbnailCache stores optimized renditions on disk keyed by image reference and size
type ThumbnailCache struct {
	dir string
}

// NewThumbnailCache ensures the cache directory exists
func NewThumbnailCache(dir string) (*ThumbnailCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &ThumbnailCache{dir: dir}, nil
}

func (c *ThumbnailCache) path(ref string, size ImageSize) string {
	sum := sha1.Sum([]byte(ref))
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.jpg", hex.EncodeToString(sum[:8]), size))
}

// Get returns the cached rendition, producing and caching it with load on a miss
func (c *ThumbnailCache) Get(ref string, size ImageSize, load func() ([]byte, error)) ([]byte, error) {
	cachePath := c.path(ref, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ImageCacheHits.Inc()
		return data, nil
	}
	metrics.ImageCacheMisses.Inc()

	original, err := load()
	if err != nil {
		return nil, err
	}
	optimized, err := OptimizeImage(original, size)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(cachePath, optimized, 0644); err != nil {
		log.Printf("⚠️  Warning: failed to cache image %s: %v", ref, err)
	}
	return optimized, nil
}

// Invalidate drops every cached rendition of ref
func (c *ThumbnailCache) Invalidate(ref string) {
	for _, size := range []ImageSize{SizeThumb, SizeMedium} {
		if err := os.Remove(c.path(ref, size)); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️  Warning: failed to drop cached image %s: %v", ref, err)
		}
	}
}
