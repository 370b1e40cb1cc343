// Package lrclib fetches lyrics from the LRCLib search API.
package lrclib

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/source"
)

const (
	defaultAPIURL = "https://lrclib.net/api/search"
	maxResults    = 3
)

var parenRegex = regexp.MustCompile(`\([^)]*\)`)

// Source is the LRCLib adapter.
type Source struct {
	client *source.Client
	apiURL string
}

func New(opts source.Options) *Source {
	return &Source{
		client: source.NewClient(lyrics.SourceLRCLib, opts),
		apiURL: defaultAPIURL,
	}
}

func (s *Source) ID() lyrics.SourceID { return lyrics.SourceLRCLib }

// Fetch searches for "<title> <artist>" and yields at most one candidate.
func (s *Source) Fetch(ctx context.Context, q lyrics.Query) []lyrics.RawCandidate {
	title, artist := normalize(q)

	params := url.Values{}
	params.Set("q", title+" "+artist)
	params.Set("limit", fmt.Sprint(maxResults))
	reqURL := fmt.Sprintf("%s?%s", s.apiURL, params.Encode())

	var tracks []track
	if err := s.client.GetJSON(ctx, reqURL, &tracks); err != nil {
		s.client.Report(err)
		return nil
	}
	if len(tracks) == 0 {
		return nil
	}
	if len(tracks) > maxResults {
		tracks = tracks[:maxResults]
	}

	match := pick(tracks, artist)
	text := match.PlainLyrics
	if text == "" {
		text = strings.TrimSpace(lyrics.StripTimestamps(match.SyncedLyrics))
	}
	if text == "" {
		return nil
	}

	return []lyrics.RawCandidate{{
		Source: lyrics.SourceLRCLib,
		Text:   text,
		Synced: match.SyncedLyrics != "",
	}}
}

// normalize drops parenthesized title segments like "(Remastered)" and
// keeps only the first credited artist.
func normalize(q lyrics.Query) (title, artist string) {
	title = strings.TrimSpace(parenRegex.ReplaceAllString(q.Title, ""))
	artist = strings.TrimSpace(strings.SplitN(q.Artist, ",", 2)[0])
	return title, artist
}

// pick returns the first track whose artist contains artist, or the first
// track when none does.
func pick(tracks []track, artist string) track {
	want := strings.ToLower(artist)
	for _, t := range tracks {
		if t.ArtistName != "" && strings.Contains(strings.ToLower(t.ArtistName), want) {
			return t
		}
	}
	return tracks[0]
}

type track struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	SyncedLyrics string `json:"syncedLyrics"`
	PlainLyrics  string `json:"plainLyrics"`
}
