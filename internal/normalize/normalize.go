// Package normalize strips source-specific markup and editorial noise from
// raw post bodies before any other stage sees them.
package normalize

import (
	"regexp"
	"strings"
)

var (
	urlRegex       = regexp.MustCompile(`https?://\S+`)
	markdownLink   = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	editMarker     = regexp.MustCompile(`(?i)edit(\s*\d*\s*)?:`)
	updateMarker   = regexp.MustCompile(`(?i)update(\s*\d*\s*)?:`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean applies the normalization rules in order: collapse [label](target)
// links to their label, drop bare URLs, strip edit/update markers, collapse
// runs of 3+ newlines to 2, and trim surrounding whitespace. Link collapse
// runs first so the URL pass cannot eat a link's closing paren. Pure
// function; short or removed-content markers pass through unchanged.
func Clean(text string) string {
	text = markdownLink.ReplaceAllString(text, "$1")
	text = urlRegex.ReplaceAllString(text, "")
	text = editMarker.ReplaceAllString(text, "")
	text = updateMarker.ReplaceAllString(text, "")
	text = excessNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
