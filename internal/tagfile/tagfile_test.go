package tagfile

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"bestlyrics/internal/lyrics"

	"go.senan.xyz/taglib"
)

// createTestAudioFile generates a minimal MP3 named name using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, name string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping tag file test")
	}

	path := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.1", "-q:a", "9", path)
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name                  string
		title, artist         string
		wantTitle, wantArtist string
	}{
		{"plain", "Yellow", "Coldplay", "Yellow", "Coldplay"},
		{"vevo channel", "Yellow", "ColdplayVEVO", "Yellow", "Coldplay"},
		{"topic channel", "Yellow", "Coldplay - Topic", "Yellow", "Coldplay"},
		{"official video", "Yellow (Official Video)", "Coldplay", "Yellow", "Coldplay"},
		{"bracketed lyrics", "Yellow [Lyrics]", "Coldplay", "Yellow", "Coldplay"},
		{"featuring", "Hymn (feat. Beyoncé)", "Coldplay", "Hymn", "Coldplay"},
		{"split title", "Coldplay - Yellow (Official Audio)", "", "Yellow", "Coldplay"},
		{"en dash", "Coldplay – Yellow", "", "Yellow", "Coldplay"},
		{"dash kept with artist", "Hold On - Acoustic", "Band", "Hold On - Acoustic", "Band"},
		{"remaster kept", "Yellow (Remastered)", "Coldplay", "Yellow (Remastered)", "Coldplay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, artist := normalize(tt.title, tt.artist)
			if title != tt.wantTitle || artist != tt.wantArtist {
				t.Errorf("normalize(%q, %q) = (%q, %q), want (%q, %q)",
					tt.title, tt.artist, title, artist, tt.wantTitle, tt.wantArtist)
			}
		})
	}
}

func TestReadQuery(t *testing.T) {
	path := createTestAudioFile(t, "track.mp3")
	tags := map[string][]string{
		taglib.Title:  {"Yellow (Official Video)"},
		taglib.Artist: {"ColdplayVEVO"},
	}
	if err := taglib.WriteTags(path, tags, 0); err != nil {
		t.Fatalf("failed to write tags: %v", err)
	}

	q, err := ReadQuery(path)
	if err != nil {
		t.Fatalf("ReadQuery failed: %v", err)
	}
	if q.Title != "Yellow" || q.Artist != "Coldplay" {
		t.Errorf("ReadQuery = %+v, want Yellow by Coldplay", q)
	}
}

func TestReadQueryFromFileName(t *testing.T) {
	path := createTestAudioFile(t, "Coldplay - Yellow.mp3")

	q, err := ReadQuery(path)
	if err != nil {
		t.Fatalf("ReadQuery failed: %v", err)
	}
	if q.Title != "Yellow" || q.Artist != "Coldplay" {
		t.Errorf("ReadQuery = %+v, want Yellow by Coldplay", q)
	}
}

func TestReadQueryMissingArtist(t *testing.T) {
	path := createTestAudioFile(t, "untitled.mp3")

	_, err := ReadQuery(path)
	if !errors.Is(err, lyrics.ErrInvalidQuery) {
		t.Errorf("ReadQuery error = %v, want ErrInvalidQuery", err)
	}
}

func TestReadQueryMissingFile(t *testing.T) {
	if _, err := ReadQuery(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEmbedLyrics(t *testing.T) {
	path := createTestAudioFile(t, "track.mp3")
	if err := taglib.WriteTags(path, map[string][]string{taglib.Title: {"Yellow"}}, 0); err != nil {
		t.Fatalf("failed to write tags: %v", err)
	}

	text := "Look at the stars\nLook how they shine for you"
	if err := EmbedLyrics(path, text); err != nil {
		t.Fatalf("EmbedLyrics failed: %v", err)
	}

	got, err := ReadLyrics(path)
	if err != nil {
		t.Fatalf("ReadLyrics failed: %v", err)
	}
	if got != text {
		t.Errorf("lyrics = %q, want %q", got, text)
	}

	// Existing tags survive.
	tags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatal(err)
	}
	if firstTag(tags, taglib.Title) != "Yellow" {
		t.Errorf("title tag lost after embedding lyrics: %v", tags[taglib.Title])
	}
}
