package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	imageExtRegex    = regexp.MustCompile(`(?i)\.(png|jpg|jpeg)$`)
	unsafeNameRegex  = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
	repeatedDotRegex = regexp.MustCompile(`\.{2,}`)
)

// IsImageFileName reports whether the name has one of the accepted upload extensions (png, jpg, jpeg)
func IsImageFileName(name string) bool {
	return imageExtRegex.MatchString(strings.TrimSpace(name))
}

// SanitizeImageFileName reduces an uploaded file name to a safe base name.
// Example: "../My Shirt (1).JPG" -> "My_Shirt_1.jpg"
func SanitizeImageFileName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if !IsImageFileName(base) {
		return "", fmt.Errorf("invalid image file name %q: expected .png, .jpg or .jpeg", name)
	}

	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unsafeNameRegex.ReplaceAllString(stem, "_")
	stem = repeatedDotRegex.ReplaceAllString(stem, ".")
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "image"
	}
	return stem + ext, nil
}

// WithNameSuffix inserts "_n" before the extension: shirt.png, 2 -> shirt_2.png
func WithNameSuffix(name string, n int) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}
