package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFileName(t *testing.T) {
	assert.True(t, IsImageFileName("shirt.png"))
	assert.True(t, IsImageFileName("shirt.JPG"))
	assert.True(t, IsImageFileName("shirt.jpeg"))
	assert.False(t, IsImageFileName("shirt.gif"))
	assert.False(t, IsImageFileName("shirt"))
	assert.False(t, IsImageFileName("png"))
}

func TestSanitizeImageFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"shirt.png", "shirt.png"},
		{"../My Shirt (1).JPG", "My_Shirt_1.jpg"},
		{`C:\photos\shoes.jpeg`, "shoes.jpeg"},
		{"(((.png", "image.png"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SanitizeImageFileName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SanitizeImageFileName("notes.txt")
	assert.Error(t, err)
}

func TestWithNameSuffix(t *testing.T) {
	assert.Equal(t, "shirt_2.png", WithNameSuffix("shirt.png", 2))
	assert.Equal(t, "noext_1", WithNameSuffix("noext", 1))
}

func TestParseItemFileName(t *testing.T) {
	tests := []struct {
		in       string
		category string
		tags     []string
	}{
		{"shirt-casual_summer.png", "shirt", []string{"casual", "summer"}},
		{"photos/Pants-Formal_light-grey.JPG", "Pants", []string{"formal", "light grey"}},
		{"shoes.jpeg", "shoes", []string{}},
		{"shoes-.png", "shoes", []string{}},
		{"shirt-casual_2.png", "shirt", []string{"casual"}},
		{"shirt_1.jpg", "shirt", []string{}},
		{"shirt_12-casual.jpg", "shirt", []string{"casual"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			category, tags, err := ParseItemFileName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.tags, tags)
		})
	}

	_, _, err := ParseItemFileName("notes.txt")
	assert.Error(t, err)
	_, _, err = ParseItemFileName("2024_shirt.png")
	assert.Error(t, err)
}

func TestItemFileName(t *testing.T) {
	name := ItemFileName("Pants", []string{"formal", "light grey", "a/b"}, ".jpg")
	assert.Equal(t, "pants-formal_light-grey_ab.jpg", name)

	category, tags, err := ParseItemFileName(name)
	require.NoError(t, err)
	assert.Equal(t, "pants", category)
	assert.Equal(t, []string{"formal", "light grey", "ab"}, tags)

	assert.Equal(t, "shoes.png", ItemFileName("Shoes", nil, ".png"))
}
