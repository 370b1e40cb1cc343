// Package tagfile reads lookup queries from audio file tags and writes
// selected lyrics back into the file.
package tagfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"bestlyrics/internal/lyrics"

	"go.senan.xyz/taglib"
)

// lyricsTag is TagLib's property name for unsynchronized lyrics
// (USLT in ID3v2, LYRICS in Vorbis comments, ©lyr in MP4).
const lyricsTag = "LYRICS"

// ErrNoTitle is returned when neither the tags nor the file name give a title.
var ErrNoTitle = errors.New("no title in tags or file name")

var (
	// Upload-site decorations such as "(Official Video)" or "[Lyrics]".
	decorationPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:official\s+(?:music\s+|lyric\s+)?(?:video|audio|visualizer)|lyrics?|visual(?:izer)?|audio|hd|hq|4k|explicit|clean)\s*[\)\]]`)
	featuringPattern  = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]+[\)\]]`)
	vevoPattern       = regexp.MustCompile(`(?i)vevo$`)
	topicPattern      = regexp.MustCompile(`(?i)\s+-\s+topic$`)
	separatorPattern  = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`)
)

// ReadQuery builds a lookup query from the title and artist tags of the file
// at path. When the artist tag is missing, an "Artist - Title" title or file
// name is split.
func ReadQuery(path string) (lyrics.Query, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return lyrics.Query{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	title := firstTag(tags, taglib.Title)
	artist := firstTag(tags, taglib.Artist)
	if artist == "" {
		artist = firstTag(tags, taglib.AlbumArtist)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	title, artist = normalize(title, artist)
	if title == "" {
		return lyrics.Query{}, ErrNoTitle
	}

	q, err := lyrics.NewQuery(title, artist)
	if err != nil {
		return lyrics.Query{}, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// EmbedLyrics stores text in the file's lyrics tag, keeping other tags.
func EmbedLyrics(path, text string) error {
	if err := taglib.WriteTags(path, map[string][]string{lyricsTag: {text}}, 0); err != nil {
		return fmt.Errorf("failed to write lyrics to %s: %w", path, err)
	}
	return nil
}

// ReadLyrics returns the embedded lyrics, or "" when there are none.
func ReadLyrics(path string) (string, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return "", fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	return firstTag(tags, lyricsTag), nil
}

func normalize(title, artist string) (string, string) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)

	artist = topicPattern.ReplaceAllString(artist, "")
	artist = strings.TrimSpace(vevoPattern.ReplaceAllString(artist, ""))

	title = decorationPattern.ReplaceAllString(title, "")
	title = featuringPattern.ReplaceAllString(title, "")

	if artist == "" {
		if m := separatorPattern.FindStringSubmatch(title); m != nil {
			artist = m[1]
			title = m[2]
		}
	}

	return strings.TrimSpace(title), strings.TrimSpace(artist)
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}
