package lyrics

import (
	"errors"
	"testing"
)

func TestNewQuery(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		artist     string
		wantTitle  string
		wantArtist string
		wantErr    bool
	}{
		{
			name:       "valid",
			title:      "Yellow",
			artist:     "Coldplay",
			wantTitle:  "Yellow",
			wantArtist: "Coldplay",
		},
		{
			name:       "values are trimmed",
			title:      "  Yellow ",
			artist:     "\tColdplay\n",
			wantTitle:  "Yellow",
			wantArtist: "Coldplay",
		},
		{
			name:    "missing title",
			artist:  "Coldplay",
			wantErr: true,
		},
		{
			name:    "missing artist",
			title:   "Yellow",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			title:   "   ",
			artist:  "Coldplay",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuery(tt.title, tt.artist)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuery) {
					t.Fatalf("NewQuery() error = %v, want ErrInvalidQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", q.Title, tt.wantTitle)
			}
			if q.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", q.Artist, tt.wantArtist)
			}
		})
	}
}

func TestResultBest(t *testing.T) {
	if _, ok := (Result{}).Best(); ok {
		t.Error("Best() on empty result should report false")
	}

	r := Result{Ranked: []ScoredCandidate{
		{Source: SourceLyricsOVH, Score: 70},
		{Source: SourceLRCLib, Score: 40},
	}}
	best, ok := r.Best()
	if !ok || best.Source != SourceLyricsOVH {
		t.Errorf("Best() = %+v, %v; want Lyrics.ovh", best, ok)
	}
}
