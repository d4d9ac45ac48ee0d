package ingest

import (
	"regexp"
	"strings"
)

var (
	lineEndingRe = regexp.MustCompile(`\r\n?`)
	spaceRunRe   = regexp.MustCompile(` +`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw text before chunking: unify line endings,
// expand tabs, collapse runs of spaces, cap consecutive blank lines
// at one, and trim.
func Normalize(text string) string {
	text = lineEndingRe.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
