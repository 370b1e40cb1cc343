package lyrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest cleaned text, in code points, that is worth scoring.
const MinLength = 50

var timestampTag = regexp.MustCompile(`\[\d{2}:\d{2}\.\d{2,3}\]`)

// Header lines Lyrics.ovh prepends to some songs. Case-sensitive on purpose.
var lyricsOVHBoilerplate = []*regexp.Regexp{
	regexp.MustCompile(`Paroles de la chanson.*?par.*?\n`),
	regexp.MustCompile(`Lyrics.*?\n`),
}

// StripTimestamps removes LRC tags like [01:23.45] from text.
func StripTimestamps(text string) string {
	return timestampTag.ReplaceAllString(text, "")
}

// Clean strips sync markup and provider boilerplate from a candidate.
// The second return value is false when the cleaned text is below MinLength.
func Clean(c RawCandidate) (string, bool) {
	text := StripTimestamps(c.Text)
	if c.Source == SourceLyricsOVH {
		for _, p := range lyricsOVHBoilerplate {
			text = p.ReplaceAllString(text, "")
		}
	}
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) < MinLength {
		return "", false
	}
	return text, true
}
