// Package musixmatch fetches lyrics from the Musixmatch track matcher.
// It requires an API key and stays idle without one.
package musixmatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/source"
)

const (
	defaultAPIURL = "https://api.musixmatch.com/ws/1.1"

	// Disclaimer marks the truncated preview served to free-tier keys.
	Disclaimer = "******* This Lyrics is NOT for Commercial use *******"
)

type Source struct {
	client *source.Client
	apiKey string
	apiURL string
}

func New(apiKey string, opts source.Options) *Source {
	return &Source{
		client: source.NewClient(lyrics.SourceMusixmatch, opts),
		apiKey: apiKey,
		apiURL: defaultAPIURL,
	}
}

func (s *Source) ID() lyrics.SourceID { return lyrics.SourceMusixmatch }

// Enabled reports whether an API key is configured.
func (s *Source) Enabled() bool { return s.apiKey != "" }

func (s *Source) Fetch(ctx context.Context, q lyrics.Query) []lyrics.RawCandidate {
	if !s.Enabled() {
		s.client.Skip("no API key configured")
		return nil
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("q_track", q.Title)
	params.Set("q_artist", q.Artist)
	params.Set("format", "json")
	reqURL := fmt.Sprintf("%s/matcher.lyrics.get?%s", s.apiURL, params.Encode())

	var resp apiResponse
	if err := s.client.GetJSON(ctx, reqURL, &resp); err != nil {
		s.client.Report(err)
		return nil
	}

	// Musixmatch reports API-level failures in the envelope with HTTP 200.
	if code := resp.Message.Header.StatusCode; code != http.StatusOK {
		s.client.Report(&source.FetchError{Source: lyrics.SourceMusixmatch, Status: code})
		return nil
	}

	text, err := resp.lyricsBody()
	if err != nil {
		s.client.Report(&source.ParseError{Source: lyrics.SourceMusixmatch, Err: err})
		return nil
	}
	if text == "" {
		return nil
	}
	if strings.Contains(text, Disclaimer) {
		s.client.Reject("non-commercial preview")
		return nil
	}

	return []lyrics.RawCandidate{{Source: lyrics.SourceMusixmatch, Text: text}}
}

type apiResponse struct {
	Message struct {
		Header struct {
			StatusCode int `json:"status_code"`
		} `json:"header"`
		// Body is an object on success and an empty array otherwise.
		Body json.RawMessage `json:"body"`
	} `json:"message"`
}

func (r apiResponse) lyricsBody() (string, error) {
	raw := strings.TrimSpace(string(r.Message.Body))
	if raw == "" || raw == "null" || strings.HasPrefix(raw, "[") {
		return "", nil
	}

	var body struct {
		Lyrics struct {
			LyricsBody string `json:"lyrics_body"`
		} `json:"lyrics"`
	}
	if err := json.Unmarshal(r.Message.Body, &body); err != nil {
		return "", err
	}
	return body.Lyrics.LyricsBody, nil
}
