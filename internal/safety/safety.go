// Package safety rejects posts whose text matches disallowed-content rules.
//
// The filter runs before any model call so disallowed content is never sent
// to an external service.
package safety

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	// ReasonSourceMention covers any text naming the originating platform.
	ReasonSourceMention = "source_mention"

	sourcePlatform = "reddit"
)

// defaultPhrases is the baseline disallowed-content list applied when the
// configuration supplies none.
var defaultPhrases = []string{
	"kill myself",
	"end my life",
	"suicide",
	"self harm",
	"self-harm",
	"cutting myself",
	"hurt someone",
	"sexual assault",
	"raped",
	"school shooting",
	"mass shooting",
	"bomb threat",
	"terrorist attack",
}

// Filter checks combined title+body text against a configured phrase list.
type Filter struct {
	phrases []string
	caser   cases.Caser
}

// New creates a Filter. An empty phrase list falls back to the built-in set.
func New(phrases []string) *Filter {
	if len(phrases) == 0 {
		phrases = defaultPhrases
	}

	return &Filter{
		phrases: phrases,
		caser:   cases.Fold(),
	}
}

// Check returns whether the text is acceptable and, when it is not, the
// matched phrase or rule as the reason. Matching is case-folded substring
// containment; the first match wins.
func (f *Filter) Check(text string) (bool, string) {
	folded := f.caser.String(text)

	for _, phrase := range f.phrases {
		if strings.Contains(folded, f.caser.String(phrase)) {
			return false, phrase
		}
	}

	if strings.Contains(folded, sourcePlatform) {
		return false, ReasonSourceMention
	}

	return true, ""
}
