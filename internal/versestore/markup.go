package versestore

import (
	"regexp"
	"strings"
)

var (
	// Footnotes, Strong's numbers and morphology tags carry content that is
	// not part of the reading text, so they go together with their bodies.
	dropWithBody = regexp.MustCompile(`(?s)<(f|S|m|n)>.*?</(f|S|m|n)>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
	spaces       = regexp.MustCompile(`\s{2,}`)
)

// stripMarkup removes MyBible inline markup from verse text.
func stripMarkup(text string) string {
	if !strings.ContainsRune(text, '<') {
		return strings.TrimSpace(text)
	}
	text = dropWithBody.ReplaceAllString(text, "")
	text = anyTag.ReplaceAllString(text, " ")
	text = spaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
