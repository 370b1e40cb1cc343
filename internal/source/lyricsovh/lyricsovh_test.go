package lyricsovh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/source"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantText string
	}{
		{
			name:     "lyrics returned verbatim",
			status:   http.StatusOK,
			body:     `{"lyrics": "Paroles de la chanson Yellow par Coldplay\r\nLook at the stars"}`,
			wantText: "Paroles de la chanson Yellow par Coldplay\r\nLook at the stars",
		},
		{
			name:   "empty lyrics",
			status: http.StatusOK,
			body:   `{"lyrics": ""}`,
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error": "No lyrics found"}`,
		},
		{
			name:   "error field on 200",
			status: http.StatusOK,
			body:   `{"error": "No lyrics found"}`,
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   `bad gateway`,
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := New(source.Options{})
			s.apiURL = srv.URL

			got := s.Fetch(context.Background(), lyrics.Query{Title: "Yellow", Artist: "Coldplay"})
			if tt.wantText == "" {
				if len(got) != 0 {
					t.Fatalf("expected no candidates, got %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(got))
			}
			if got[0].Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got[0].Text, tt.wantText)
			}
			if got[0].Synced {
				t.Error("Lyrics.ovh candidates are never synced")
			}
			if got[0].Source != lyrics.SourceLyricsOVH {
				t.Errorf("Source = %q", got[0].Source)
			}
		})
	}
}

func TestFetchPathSegments(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(source.Options{})
	s.apiURL = srv.URL + "/v1"

	s.Fetch(context.Background(), lyrics.Query{Title: "Let It Be (Remastered)", Artist: "AC/DC"})

	want := "/v1/AC%2FDC/Let%20It%20Be%20%28Remastered%29"
	if gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}
