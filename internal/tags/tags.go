// Package tags resolves track metadata for loads that carry only a
// content locator: title, artist, album, duration, and artwork.
package tags

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// IsMusicFile reports whether path has a supported audio extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".flac", ".wav":
		return true
	}
	return false
}

// ReadTrack builds a Track from an audio file. Missing tags degrade to
// the filename; a missing duration degrades to zero rather than
// failing the load.
func ReadTrack(path string) (session.Track, error) {
	t := session.Track{
		ID:    path,
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return t, err
	}
	defer f.Close()

	if meta, err := tag.ReadFrom(f); err == nil {
		if v := meta.Title(); v != "" {
			t.Title = v
		}
		t.Artist = meta.Artist()
		t.Album = meta.Album()
	}

	t.Duration = readDuration(path)
	t.ArtworkPath = FindCoverArt(path)
	return t, nil
}

// readDuration decodes just enough of the stream to learn its length.
func readDuration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		return 0
	}
	if err != nil {
		return 0
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len())
}
