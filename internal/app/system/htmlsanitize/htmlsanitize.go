// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips unsafe HTML from rich-text fields before
// they are persisted: lesson introductions, article sections, and
// announcement details all pass through here on save.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows the formatting the rich-text editor emits (paragraphs,
// emphasis, lists, links) and nothing executable.
var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe markup removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
