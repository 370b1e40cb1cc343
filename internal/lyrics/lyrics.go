// Package lyrics selects the best lyrics for a song from several independent
// upstream sources. Sources produce raw candidates, which are cleaned,
// filtered by a minimum length, scored and ranked by an Aggregator.
package lyrics

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SourceID identifies an upstream lyrics provider.
type SourceID string

const (
	SourceLRCLib     SourceID = "LRCLib"
	SourceLyricsOVH  SourceID = "Lyrics.ovh"
	SourceMusixmatch SourceID = "Musixmatch"
)

// ErrInvalidQuery is returned when a title or artist is missing.
var ErrInvalidQuery = errors.New("missing title or artist")

var validate = validator.New()

// Query is a validated title/artist pair.
type Query struct {
	Title  string `validate:"required"`
	Artist string `validate:"required"`
}

// NewQuery trims title and artist and checks that neither is empty.
func NewQuery(title, artist string) (Query, error) {
	q := Query{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
	}
	if err := validate.Struct(q); err != nil {
		return Query{}, ErrInvalidQuery
	}
	return q, nil
}

// RawCandidate is lyric text as returned by one source, before cleaning.
type RawCandidate struct {
	Source SourceID
	Text   string
	Synced bool // the provider's response carried time-synchronized lyrics
}

// ScoredCandidate is a cleaned candidate that passed the quality floor.
type ScoredCandidate struct {
	Source SourceID
	Text   string
	Synced bool
	Score  float64
}

// Source is implemented by each upstream adapter. Fetch never fails: faults
// are handled inside the adapter and surface as an empty slice.
type Source interface {
	ID() SourceID
	Fetch(ctx context.Context, q Query) []RawCandidate
}

// Result is the outcome of one aggregation. Ranked is sorted by descending
// score; Tried lists every source that was invoked.
type Result struct {
	Ranked []ScoredCandidate
	Tried  []SourceID
}

// Best returns the top-ranked candidate, if any.
func (r Result) Best() (ScoredCandidate, bool) {
	if len(r.Ranked) == 0 {
		return ScoredCandidate{}, false
	}
	return r.Ranked[0], true
}
