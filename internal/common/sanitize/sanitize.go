// Package sanitize escapes user input before it is interpolated into HTML.
package sanitize

import "strings"

// Replacer output is never rescanned, so & is escaped exactly once.
var replacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// String escapes the five HTML-significant characters.
func String(s string) string {
	if s == "" {
		return ""
	}
	return replacer.Replace(s)
}
