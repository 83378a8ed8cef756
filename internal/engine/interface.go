// Package engine wraps the low-level audio rendering engine behind the
// prepare/play/pause/seek/signal contract the playback controller
// consumes. Decoding internals are opaque to the rest of the
// coordinator.
package engine

import (
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// SignalKind identifies an asynchronous engine signal.
type SignalKind int

const (
	// SignalEndOfTrack is emitted when the current track plays to its end.
	SignalEndOfTrack SignalKind = iota
	// SignalError is emitted when rendering fails mid-track.
	SignalError
)

// Signal is an asynchronous event from the rendering engine.
type Signal struct {
	Kind SignalKind
	Err  error // set for SignalError
}

// Interface defines the rendering engine contract for dependency
// injection and testing.
//
// Prepare loads a track and leaves output suspended; Play and Pause
// gate the prepared stream. Stop releases the output and the loaded
// track. Signals delivers end-of-track and error events; delivery is
// best-effort non-blocking, consumers must drain promptly.
type Interface interface {
	Prepare(track session.Track) error
	Play()
	Pause()
	Stop()
	SeekTo(pos time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	SetVolume(level float64)
	Signals() <-chan Signal
	Close() error
}

// Verify Engine implements Interface at compile time.
var _ Interface = (*Engine)(nil)
