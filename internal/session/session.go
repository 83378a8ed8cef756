// Package session holds the playback session aggregate: the single
// source of truth for what is playing, through which output, and under
// whose permission. Only the playback controller mutates a Session;
// every other component reads value snapshots.
package session

import "time"

// FullVolume is the volume scale outside of ducked focus.
const FullVolume = 1.0

// Session is the mutable playback aggregate. It is owned exclusively
// by the controller goroutine and must not be shared; observers use
// Snapshot copies.
type Session struct {
	Track    *Track
	State    PlaybackState
	Reason   ErrorReason // meaningful only when State == StateError
	Focus    FocusState
	Route    RouteState
	Position time.Duration
	Repeat   RepeatMode
	Shuffle  bool
	Volume   float64 // 0.0-1.0, reduced only while ducking
}

// New returns a session in its startup state: nothing loaded, no focus,
// no committed route.
func New() *Session {
	return &Session{
		State:  StateIdle,
		Focus:  FocusNone,
		Route:  RouteNone,
		Volume: FullVolume,
	}
}

// Reset returns the session to Idle, dropping the loaded track. Mode
// flags and the route survive a reset: they describe user preference
// and physical topology, not the current track.
func (s *Session) Reset() {
	s.Track = nil
	s.State = StateIdle
	s.Reason = ErrorNone
	s.Position = 0
	s.Volume = FullVolume
}

// Snapshot is an immutable copy of the session handed to observers.
type Snapshot struct {
	Track    *Track
	State    PlaybackState
	Reason   ErrorReason
	Focus    FocusState
	Route    RouteState
	Position time.Duration
	Repeat   RepeatMode
	Shuffle  bool
	Volume   float64
}

// Snapshot copies the session for observers. The track pointer refers
// to an immutable value, so sharing it is safe.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Track:    s.Track,
		State:    s.State,
		Reason:   s.Reason,
		Focus:    s.Focus,
		Route:    s.Route,
		Position: s.Position,
		Repeat:   s.Repeat,
		Shuffle:  s.Shuffle,
		Volume:   s.Volume,
	}
}

// Valid checks the session invariants: output only under focus, and
// full volume outside of ducking.
func (s *Session) Valid() bool {
	if s.State == StatePlaying && s.Focus != FocusGranted && s.Focus != FocusTransientDuck {
		return false
	}
	if s.Focus != FocusTransientDuck && s.Volume != FullVolume {
		return false
	}
	return true
}
