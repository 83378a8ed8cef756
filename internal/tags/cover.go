package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Common cover art filenames to look for in album folders.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// FindCoverArt looks for album art in the track's directory. Returns
// the art file path, or empty string if none is found.
func FindCoverArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, name := range coverArtFilenames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ExtractCoverArt writes the track's embedded picture to destDir and
// returns the written path. Returns empty string when the track has no
// embedded art.
func ExtractCoverArt(trackPath, destDir string) (string, error) {
	f, err := os.Open(trackPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", err
	}
	pic := meta.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return "", nil
	}

	ext := ".jpg"
	if strings.Contains(pic.MIMEType, "png") {
		ext = ".png"
	}

	base := strings.TrimSuffix(filepath.Base(trackPath), filepath.Ext(trackPath))
	dest := filepath.Join(destDir, base+ext)
	if err := os.WriteFile(dest, pic.Data, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}
