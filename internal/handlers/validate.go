package handlers

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"voiceaikb/internal/search"
)

// Input limits for search requests.
const (
	maxQueryLen = 200
	maxAPILimit = 100
)

// normalizeQuery bounds a raw query string. Surrounding whitespace is kept
// because the search matches it literally.
func normalizeQuery(q string) string {
	if utf8.RuneCountInString(q) <= maxQueryLen {
		return q
	}
	runes := []rune(q)
	return string(runes[:maxQueryLen])
}

// parseLimit reads the limit parameter of the search API. Missing or
// malformed values fall back to the page limit; the result is capped.
func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return search.PageLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return search.PageLimit
	}
	return min(n, maxAPILimit)
}

// parseSelection reads the previous highlight index of the quick list.
func parseSelection(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return -1
	}
	return n
}

// splitTopicPath turns the wildcard part of a /topics/ URL into slugs,
// ignoring empty segments from doubled or trailing slashes.
func splitTopicPath(raw string) []string {
	var out []string
	for _, seg := range strings.Split(raw, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
