package controller

import (
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// Commands are fire-and-observe: they return immediately and their
// outcome becomes visible through Snapshot and Subscribe, never as a
// return value.

// LoadAndPlay stops whatever is playing, loads track, and starts
// playback once the engine is ready and focus is granted.
func (c *Controller) LoadAndPlay(track session.Track) {
	c.post(cmdLoad{track: track})
}

// TogglePlayPause pauses active playback or resumes/starts a loaded
// track, re-acquiring focus if needed.
func (c *Controller) TogglePlayPause() {
	c.post(cmdToggle{})
}

// SkipNext advances to the navigator's next track, or stops when the
// list is exhausted and repeat-all is off.
func (c *Controller) SkipNext() {
	c.post(cmdNext{})
}

// SkipPrevious moves to the navigator's previous track; a no-op on the
// first track.
func (c *Controller) SkipPrevious() {
	c.post(cmdPrev{})
}

// Seek moves the playback position, clamped to the track bounds.
// Legal in Ready, Playing, and Paused; ignored otherwise.
func (c *Controller) Seek(pos time.Duration) {
	c.post(cmdSeek{pos: pos})
}

// SetRepeatMode updates the repeat mode.
func (c *Controller) SetRepeatMode(mode session.RepeatMode) {
	c.post(cmdRepeat{mode: mode})
}

// SetShuffle updates the shuffle flag.
func (c *Controller) SetShuffle(enabled bool) {
	c.post(cmdShuffle{enabled: enabled})
}

// Stop releases the engine output and the focus grant and resets the
// session to Idle.
func (c *Controller) Stop() {
	c.post(cmdStop{})
}

// Convenience queries over the published snapshot.

// State returns the current playback state.
func (c *Controller) State() session.PlaybackState {
	return c.Snapshot().State
}

// CurrentTrack returns the loaded track, or nil.
func (c *Controller) CurrentTrack() *session.Track {
	return c.Snapshot().Track
}

// Position returns the current playback position.
func (c *Controller) Position() time.Duration {
	return c.Snapshot().Position
}

// Duration returns the loaded track's duration.
func (c *Controller) Duration() time.Duration {
	snap := c.Snapshot()
	if snap.Track == nil {
		return 0
	}
	return snap.Track.Duration
}

// RepeatMode returns the current repeat mode.
func (c *Controller) RepeatMode() session.RepeatMode {
	return c.Snapshot().Repeat
}

// Shuffle returns the shuffle flag.
func (c *Controller) Shuffle() bool {
	return c.Snapshot().Shuffle
}

// IsPlaying returns true while output is active.
func (c *Controller) IsPlaying() bool {
	return c.State() == session.StatePlaying
}
