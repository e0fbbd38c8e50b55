package utils

import (
	"regexp"
	"strings"
)

const (
	tagSeparator = ','
	tagEscape    = '\\'
)

// legacyListRegex matches the list literal format the old CSV exporter wrote, e.g. ['casual', 'summer']
var legacyListRegex = regexp.MustCompile(`^\s*\[(.*)\]\s*$`)

// NormalizeTag lowercases and trims a tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, drops empties and drops duplicates keeping the first occurrence
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ParseTagsInput splits comma-separated user input into normalized tags.
// A backslash escapes the next character, so "rock\, paper" is a single tag.
func ParseTagsInput(input string) []string {
	return NormalizeTags(splitEscaped(input))
}

// EncodeTags joins tags into the persisted representation.
// Commas and backslashes inside a tag are backslash-escaped.
func EncodeTags(tags []string) string {
	var b strings.Builder
	for i, t := range tags {
		if i > 0 {
			b.WriteRune(tagSeparator)
		}
		for _, r := range t {
			if r == tagSeparator || r == tagEscape {
				b.WriteRune(tagEscape)
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecodeTags reverses EncodeTags. It also accepts the legacy list literal format.
func DecodeTags(encoded string) []string {
	if m := legacyListRegex.FindStringSubmatch(encoded); m != nil {
		return decodeLegacyList(m[1])
	}
	return NormalizeTags(splitEscaped(encoded))
}

func splitEscaped(s string) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == tagEscape:
			escaped = true
		case r == tagSeparator:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune(tagEscape)
	}
	parts = append(parts, cur.String())
	return parts
}

// decodeLegacyList parses the body of a list literal: quoted items separated by commas
func decodeLegacyList(body string) []string {
	var tags []string
	var cur strings.Builder
	var quote rune
	for _, r := range body {
		switch {
		case quote != 0 && r == quote:
			tags = append(tags, cur.String())
			cur.Reset()
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
		}
	}
	return NormalizeTags(tags)
}
