// Package normalize turns raw model output into a parsed JSON value.
package normalize

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrNotJSON = errors.New("model response is not valid JSON")

// openingFence matches a leading ``` marker, optionally tagged json, and the rest of its line break.
var openingFence = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\r?\n?")

// StripFences removes a fenced code block wrapper and surrounding whitespace.
// Text without fences is only trimmed.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = openingFence.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Normalize strips fences and parses the remainder. Malformed JSON is rejected as a whole.
func Normalize(raw string) (gjson.Result, error) {
	s := StripFences(raw)
	if s == "" || !gjson.Valid(s) {
		return gjson.Result{}, ErrNotJSON
	}
	return gjson.Parse(s), nil
}
