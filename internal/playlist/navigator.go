// Package playlist resolves "next" and "previous" relative to a
// current track. Navigators are pure query services: they hold no
// playback state and never observe the session.
package playlist

import "github.com/karthikeyanV2K/afot-player/internal/session"

// Navigator answers next/previous queries against the external track
// source. A nil result means the list is exhausted in that direction;
// the controller maps that to Stopped (next) or a no-op (previous).
// First supports the repeat-all wrap: the first track in the current
// traversal order, or nil for an empty source.
type Navigator interface {
	Next(current session.Track) *session.Track
	Previous(current session.Track) *session.Track
	First() *session.Track
}
