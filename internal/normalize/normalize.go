// Package normalize prepares event text for embedding and display.
package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Anything that is not a word character, whitespace, basic punctuation or an
// accented Latin letter (U+00C0 to U+00FF) gets replaced by a space.
var disallowed = regexp.MustCompile(`[^\w\s.,!?;:'"À-ÿ]`)

// Clean strips HTML markup, lowercases, removes non-linguistic characters
// while preserving accented letters, and collapses whitespace. It never
// fails: empty or unparsable input yields an empty string, and the function
// is idempotent.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
		s = doc.Text()
	}

	s = strings.ToLower(s)
	s = disallowed.ReplaceAllString(s, " ")

	return strings.Join(strings.Fields(s), " ")
}
