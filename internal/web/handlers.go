package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bestlyrics/internal/lyrics"
)

const (
	msgInvalidQuery = "Missing title or artist"
	msgNotFound     = "No lyrics found from any source"
	msgUnavailable  = "Lookup cancelled"
)

// LyricsResponse is the body of a successful lookup. Its fields always
// describe AllSources[0].
type LyricsResponse struct {
	Lyrics     string          `json:"lyrics"`
	Source     lyrics.SourceID `json:"source"`
	AllSources []SourceScore   `json:"allSources"`
	Synced     bool            `json:"synced"`
}

type SourceScore struct {
	Source lyrics.SourceID `json:"source"`
	Score  float64         `json:"score"`
}

// ErrorResponse is returned for invalid queries and, with Tried set and a
// 200 status, when no source produced usable lyrics.
type ErrorResponse struct {
	Error string            `json:"error"`
	Tried []lyrics.SourceID `json:"tried,omitempty"`
}

type SourcesResponse struct {
	Sources []lyrics.SourceID `json:"sources"`
}

func (s *Server) handleBestLyrics(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	status, body := s.lookup(r.Context(), params.Get("title"), params.Get("artist"))
	s.writeJSON(w, status, body)
}

// lookup runs one aggregation and maps the outcome to a status and body.
// It is shared by the HTTP and WebSocket endpoints.
func (s *Server) lookup(ctx context.Context, title, artist string) (int, any) {
	q, err := lyrics.NewQuery(title, artist)
	if err != nil {
		s.metrics.Request("invalid")
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidQuery}
	}

	res, err := s.finder.Aggregate(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Debug("Lookup for %q by %q abandoned: %v", q.Title, q.Artist, err)
		} else {
			s.logger.Error("Lookup for %q by %q failed: %v", q.Title, q.Artist, err)
		}
		return http.StatusServiceUnavailable, ErrorResponse{Error: msgUnavailable}
	}

	return http.StatusOK, ResponseBody(res)
}

// ResponseBody maps an aggregation result to a LyricsResponse, or to an
// ErrorResponse listing the tried sources when nothing was found.
func ResponseBody(res lyrics.Result) any {
	best, ok := res.Best()
	if !ok {
		return ErrorResponse{Error: msgNotFound, Tried: res.Tried}
	}
	all := make([]SourceScore, len(res.Ranked))
	for i, c := range res.Ranked {
		all[i] = SourceScore{Source: c.Source, Score: c.Score}
	}
	return LyricsResponse{
		Lyrics:     best.Text,
		Source:     best.Source,
		AllSources: all,
		Synced:     best.Synced,
	}
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SourcesResponse{Sources: s.finder.Sources()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response: %v", err)
	}
}
