package controller

import (
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// StateChange is emitted when the playback state changes.
type StateChange struct {
	Previous session.PlaybackState
	Current  session.PlaybackState
}

// TrackChange is emitted when a different track is loaded.
//
// Emitted by:
//   - LoadAndPlay: when the loaded track differs from the previous one
//   - SkipNext/SkipPrevious and automatic advance at end of track
//
// NOT emitted by:
//   - Pause/resume, focus or route changes: state changes do not imply
//     a track change
//
// Observers handle all track-related side effects (notification
// rebuild, metadata surfaces) in response to this event.
type TrackChange struct {
	Previous *session.Track
	Current  *session.Track
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	Repeat  session.RepeatMode
	Shuffle bool
}

// ErrorEvent is emitted when an operation fails during playback.
// Errors never reach command callers directly; they surface here and
// as session state.
type ErrorEvent struct {
	Operation string // e.g., "prepare", "render"
	Path      string // track path if applicable
	Err       error
}
