package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()

	angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// Sanitize cleans user supplied HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(input))
}

// SanitizePlain strips every tag, for single-line fields such as titles and tag names.
// Entities are decoded before the policy runs so encoded markup is stripped as well.
// The result is stored unescaped ("a & b" round-trips) except for angle brackets.
func SanitizePlain(input string) string {
	cleaned := html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(input)))
	return strings.TrimSpace(angleEscaper.Replace(cleaned))
}
