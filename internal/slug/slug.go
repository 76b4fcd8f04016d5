// Package slug provides normalized slug generation for category names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// whitespace matches runs of spaces between words.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a slug from a category name: trimmed, lowercased, with
// spaces replaced by hyphens. Non-ASCII characters are kept as-is since
// category names are frequently not English.
// Example: "  My Dev Links " → "my-dev-links"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return result
}
