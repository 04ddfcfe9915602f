package common

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lower-cases input into hyphen-separated words, using fallback when
// input has no usable characters. A positive maxLen caps the result at a word
// boundary where one exists.
func Slugify(input, fallback string, maxLen int) (string, error) {
	slug := slugify(input, maxLen)
	if slug == "" {
		slug = slugify(fallback, maxLen)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func slugify(s string, maxLen int) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := strings.Trim(nonSlugChars.ReplaceAllString(lower, "-"), "-")
	if maxLen <= 0 || len(slug) <= maxLen {
		return slug
	}

	cut := slug[:maxLen]
	if i := strings.LastIndexByte(cut, '-'); i > 0 {
		cut = cut[:i]
	}
	return strings.Trim(cut, "-")
}
