package lyrics

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var artistSeparators = regexp.MustCompile(`[,\s&]+`)

// Score estimates how likely text is to be the complete lyrics of the song.
// Terms are summed and the total is clamped to zero only once, at the end.
// Lengths are counted in Unicode code points, so an emoji counts once.
func Score(text, title, artist string) float64 {
	lower := strings.ToLower(text)
	length := utf8.RuneCountInString(text)

	score := math.Min(float64(length)/10, 50)

	if strings.Contains(lower, strings.ToLower(title)) {
		score += 20
	}

	for _, part := range artistSeparators.Split(strings.ToLower(artist), -1) {
		if utf8.RuneCountInString(part) > 2 && strings.Contains(lower, part) {
			score += 10
		}
	}

	if length < 100 {
		score -= 30
	}

	if strings.Count(text, "\n")+1 > 10 {
		score += 15
	}

	if strings.Contains(lower, "lyrics not available") || strings.Contains(lower, "instrumental") {
		score -= 50
	}

	return math.Max(0, score)
}
