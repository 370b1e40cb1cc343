// Package lyricsovh fetches lyrics from api.lyrics.ovh.
package lyricsovh

import (
	"context"
	"fmt"
	"net/url"

	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/source"
)

const defaultAPIURL = "https://api.lyrics.ovh/v1"

type Source struct {
	client *source.Client
	apiURL string
}

func New(opts source.Options) *Source {
	return &Source{
		client: source.NewClient(lyrics.SourceLyricsOVH, opts),
		apiURL: defaultAPIURL,
	}
}

func (s *Source) ID() lyrics.SourceID { return lyrics.SourceLyricsOVH }

// Fetch looks up /{artist}/{title} using the query values verbatim.
// Site boilerplate is left for the cleaner.
func (s *Source) Fetch(ctx context.Context, q lyrics.Query) []lyrics.RawCandidate {
	reqURL := fmt.Sprintf("%s/%s/%s", s.apiURL, url.PathEscape(q.Artist), url.PathEscape(q.Title))

	var resp apiResponse
	if err := s.client.GetJSON(ctx, reqURL, &resp); err != nil {
		s.client.Report(err)
		return nil
	}
	if resp.Lyrics == "" {
		if resp.Error != "" {
			s.client.Reject(resp.Error)
		}
		return nil
	}

	return []lyrics.RawCandidate{{Source: lyrics.SourceLyricsOVH, Text: resp.Lyrics}}
}

type apiResponse struct {
	Lyrics string `json:"lyrics"`
	Error  string `json:"error"`
}
