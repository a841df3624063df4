// Package htmlsanitize cleans user-supplied rich text before storage.
// Visitor notes, suggestions, experiences, prayer requests, and
// announcement bodies all pass through here so stored text can be
// rendered without further escaping concerns.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps the basic formatting tags users reasonably paste in
	// (paragraphs, emphasis, lists, safe links) and strips everything else.
	ugc = bluemonday.UGCPolicy()

	// strict removes all markup, leaving only text content.
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes unsafe HTML from s, preserving basic formatting.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all HTML from s and trims surrounding whitespace.
// Use for fields that should never contain markup (names, titles).
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
