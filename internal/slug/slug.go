// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s]+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Make lowercases name, drops everything outside [a-z0-9] and whitespace, and
// joins the remaining words with single hyphens.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = disallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return spaces.ReplaceAllString(s, "-")
}

// WithSKU disambiguates a product slug with its lowercased SKU.
func WithSKU(s, sku string) string {
	return s + "-" + strings.ToLower(strings.TrimSpace(sku))
}
