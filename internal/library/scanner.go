// Package library discovers audio files on disk and resolves their
// metadata into playable tracks.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/karthikeyanV2K/afot-player/internal/session"
	"github.com/karthikeyanV2K/afot-player/internal/tags"
)

const numWorkers = 8

// Scan walks the given folder and returns a track for every supported
// audio file found, ordered by path. Files that cannot be read are
// skipped rather than failing the whole scan.
func Scan(folder string) ([]session.Track, error) {
	if _, err := os.Stat(folder); err != nil {
		return nil, err
	}

	paths := discoverFiles(folder)
	if len(paths) == 0 {
		return nil, nil
	}

	// Read metadata in parallel
	workCh := make(chan string, len(paths))
	resultCh := make(chan session.Track, len(paths))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for path := range workCh {
				track, err := tags.ReadTrack(path)
				if err != nil {
					continue
				}
				resultCh <- track
			}
		})
	}

	go func() {
		for _, p := range paths {
			workCh <- p
		}
		close(workCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var tracks []session.Track
	for track := range resultCh {
		tracks = append(tracks, track)
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].Path < tracks[j].Path
	})
	return tracks, nil
}

// discoverFiles walks the folder and returns all music file paths found.
func discoverFiles(folder string) []string {
	var paths []string
	_ = filepath.WalkDir(folder, func(path string, d os.DirEntry, walkErr error) error {
		// Skip any walk errors - intentionally continuing to scan other paths
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() {
			return nil
		}
		if !tags.IsMusicFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths
}
