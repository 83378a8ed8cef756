package session

// PlaybackState represents the playback state machine.
//
// Valid transitions:
//   - Idle|Stopped|Error → Preparing (via load)
//   - Preparing → Playing (engine ready, focus granted)
//   - Preparing → Ready   (engine ready, focus not granted)
//   - Ready|Paused → Playing (resume with focus)
//   - Playing → Paused  (user pause, focus loss, route loss)
//   - any → Preparing (a new load supersedes whatever was in flight)
//   - any → Error (fatal engine failure)
//   - any → Stopped (explicit stop or exhausted queue)
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StatePreparing
	StateReady
	StatePlaying
	StatePaused
	StateStopped
	StateError
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePreparing:
		return "Preparing"
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStopped:
		return "Stopped"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded and playback is underway
// or suspended (Playing or Paused).
func (s PlaybackState) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// CanSeek returns true if the state allows seeking.
func (s PlaybackState) CanSeek() bool {
	return s == StateReady || s == StatePlaying || s == StatePaused
}

// CanLoad returns true if a new track may be loaded. Every state
// accepts a load: Error and Stopped are recoverable, and a load issued
// mid-Preparing supersedes the one in flight.
func (s PlaybackState) CanLoad() bool {
	return true
}

// ErrorReason identifies why playback entered StateError.
type ErrorReason int

const (
	ErrorNone ErrorReason = iota
	ErrorDecodeFailed
	ErrorRenderFailed
)

// String returns the reason name.
func (r ErrorReason) String() string {
	switch r {
	case ErrorNone:
		return "None"
	case ErrorDecodeFailed:
		return "DecodeFailed"
	case ErrorRenderFailed:
		return "RenderFailed"
	default:
		return "Unknown"
	}
}

// FocusState tracks the most recently delivered audio-focus decision.
type FocusState int

const (
	FocusNone FocusState = iota
	FocusGranted
	FocusTransientDuck
	FocusTransientLoss
	FocusPermanentLoss
)

// String returns the focus state name.
func (f FocusState) String() string {
	switch f {
	case FocusNone:
		return "None"
	case FocusGranted:
		return "Granted"
	case FocusTransientDuck:
		return "TransientLossDuck"
	case FocusTransientLoss:
		return "TransientLoss"
	case FocusPermanentLoss:
		return "PermanentLoss"
	default:
		return "Unknown"
	}
}

// AllowsOutput returns true if audio may be produced under this focus
// state. Ducked focus still permits output, only at reduced volume.
func (f FocusState) AllowsOutput() bool {
	return f == FocusGranted || f == FocusTransientDuck
}

// RouteState identifies the committed audio output path. The built-in
// speaker is modeled as RouteNone: losing it requires no action.
type RouteState int

const (
	RouteNone RouteState = iota
	RouteWired
	RouteWireless
)

// String returns the route name.
func (r RouteState) String() string {
	switch r {
	case RouteNone:
		return "None"
	case RouteWired:
		return "Wired"
	case RouteWireless:
		return "Wireless"
	default:
		return "Unknown"
	}
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}
