package lrclib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/source"
)

func newTestSource(t *testing.T, h http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s := New(source.Options{})
	s.apiURL = srv.URL
	return s
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantText   string
		wantSynced bool
		wantNone   bool
	}{
		{
			name:   "plain preferred over synced",
			status: http.StatusOK,
			body: `[{
				"artistName": "Coldplay",
				"syncedLyrics": "[00:12.00]Look at the stars",
				"plainLyrics": "Look at the stars"
			}]`,
			wantText:   "Look at the stars",
			wantSynced: true,
		},
		{
			name:       "synced only loses its tags",
			status:     http.StatusOK,
			body:       `[{"artistName": "Coldplay", "syncedLyrics": "[00:12.00]Look at the stars\n[00:15.500]Look how they shine", "plainLyrics": null}]`,
			wantText:   "Look at the stars\nLook how they shine",
			wantSynced: true,
		},
		{
			name:     "plain only",
			status:   http.StatusOK,
			body:     `[{"artistName": "Coldplay", "plainLyrics": "Just plain text"}]`,
			wantText: "Just plain text",
		},
		{
			name:   "matching artist wins over first result",
			status: http.StatusOK,
			body: `[
				{"artistName": "Cover Band", "plainLyrics": "cover"},
				{"artistName": "COLDPLAY", "plainLyrics": "original"}
			]`,
			wantText: "original",
		},
		{
			name:   "falls back to first result",
			status: http.StatusOK,
			body: `[
				{"artistName": "Someone", "plainLyrics": "first"},
				{"artistName": "", "plainLyrics": "second"}
			]`,
			wantText: "first",
		},
		{
			name:   "only the first three results are considered",
			status: http.StatusOK,
			body: `[
				{"artistName": "A", "plainLyrics": "first"},
				{"artistName": "B", "plainLyrics": "second"},
				{"artistName": "C", "plainLyrics": "third"},
				{"artistName": "Coldplay", "plainLyrics": "fourth"}
			]`,
			wantText: "first",
		},
		{
			name:     "matched track without lyrics",
			status:   http.StatusOK,
			body:     `[{"artistName": "Coldplay", "plainLyrics": "", "syncedLyrics": ""}]`,
			wantNone: true,
		},
		{
			name:     "no results",
			status:   http.StatusOK,
			body:     `[]`,
			wantNone: true,
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"code":404}`,
			wantNone: true,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `internal server error`,
			wantNone: true,
		},
		{
			name:     "malformed body",
			status:   http.StatusOK,
			body:     `{"not": "an array"}`,
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != source.DefaultUserAgent {
					t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			got := s.Fetch(context.Background(), lyrics.Query{Title: "Yellow", Artist: "Coldplay"})
			if tt.wantNone {
				if len(got) != 0 {
					t.Fatalf("expected no candidates, got %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(got))
			}
			if got[0].Source != lyrics.SourceLRCLib {
				t.Errorf("Source = %q, want %q", got[0].Source, lyrics.SourceLRCLib)
			}
			if got[0].Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got[0].Text, tt.wantText)
			}
			if got[0].Synced != tt.wantSynced {
				t.Errorf("Synced = %v, want %v", got[0].Synced, tt.wantSynced)
			}
		})
	}
}

func TestFetchQueryParams(t *testing.T) {
	var calls int
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		if got := q.Get("q"); got != "Let It Be The Beatles" {
			t.Errorf("q = %q, want %q", got, "Let It Be The Beatles")
		}
		if got := q.Get("limit"); got != "3" {
			t.Errorf("limit = %q, want %q", got, "3")
		}
		w.WriteHeader(http.StatusNotFound)
	})

	s.Fetch(context.Background(), lyrics.Query{Title: "Let It Be (Remastered 2009)", Artist: "The Beatles, Billy Preston"})
	if calls != 1 {
		t.Errorf("expected exactly 1 request, got %d", calls)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		title, artist         string
		wantTitle, wantArtist string
	}{
		{"Yellow", "Coldplay", "Yellow", "Coldplay"},
		{"Song (Live) (Remastered)", "A", "Song", "A"},
		{"(Intro) Song", "A, B, C", "Song", "A"},
		{"Song", " Artist One ,Two", "Song", "Artist One"},
	}

	for _, tt := range tests {
		title, artist := normalize(lyrics.Query{Title: tt.title, Artist: tt.artist})
		if title != tt.wantTitle || artist != tt.wantArtist {
			t.Errorf("normalize(%q, %q) = (%q, %q), want (%q, %q)",
				tt.title, tt.artist, title, artist, tt.wantTitle, tt.wantArtist)
		}
	}
}
