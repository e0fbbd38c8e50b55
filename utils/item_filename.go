package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	itemNameRegex = regexp.MustCompile(`^([A-Za-z]+)(?:_\d+)?(?:-(.*))?$`)
	numericRegex  = regexp.MustCompile(`^\d+$`)
)

// ParseItemFileName reads the category and tags encoded in an image name.
// Pattern: CATEGORY[-TAG1_TAG2...].EXT, where dashes inside a tag are spaces.
// Purely numeric parts are collision suffixes (see WithNameSuffix) and are dropped,
// including one right after the category (shirt_1.png).
// Example: shirt-casual_summer_light-blue.png -> "shirt", [casual summer light blue]
// The category is returned as written; callers map it to a models.Category.
func ParseItemFileName(filename string) (string, []string, error) {
	base := filepath.Base(filename)
	if !IsImageFileName(base) {
		return "", nil, fmt.Errorf("invalid image file name %q: expected .png, .jpg or .jpeg", filename)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	matches := itemNameRegex.FindStringSubmatch(stem)
	if matches == nil {
		return "", nil, fmt.Errorf("invalid file name format %q: expected CATEGORY-TAG1_TAG2", base)
	}

	var tags []string
	if matches[2] != "" {
		for _, part := range strings.Split(matches[2], "_") {
			if numericRegex.MatchString(part) {
				continue
			}
			tags = append(tags, strings.ReplaceAll(part, "-", " "))
		}
	}
	return matches[1], NormalizeTags(tags), nil
}

// ItemFileName is the inverse of ParseItemFileName
func ItemFileName(category string, tags []string, ext string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.NewReplacer(" ", "-", "_", "-").Replace(t)
		t = unsafeNameRegex.ReplaceAllString(t, "")
		if t != "" {
			parts = append(parts, t)
		}
	}
	name := strings.ToLower(category)
	if len(parts) > 0 {
		name += "-" + strings.Join(parts, "_")
	}
	return name + ext
}
