// Package route observes the audio output topology and normalizes raw
// device events into route-change signals for the playback controller.
// It only reacts to attach/detach; device discovery is out of scope.
package route

// Kind identifies the class of an output route.
type Kind int

const (
	KindWired Kind = iota
	KindWireless
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindWired:
		return "Wired"
	case KindWireless:
		return "Wireless"
	default:
		return "Unknown"
	}
}

// EventType identifies a normalized route-change signal.
type EventType int

const (
	// Connected reports a new committed output route.
	Connected EventType = iota
	// Disconnected reports loss of the active route.
	Disconnected
	// AboutToDisconnect is the "becoming noisy" pre-warning: the route
	// is still up but will drop imminently. Consumers treat it like
	// Disconnected; it merely arrives early enough to pause before an
	// audible glitch.
	AboutToDisconnect
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case AboutToDisconnect:
		return "AboutToDisconnect"
	default:
		return "Unknown"
	}
}

// Event is a normalized route-change signal. Kind is meaningful only
// for Connected events.
type Event struct {
	Type EventType
	Kind Kind
}

// Source is the raw OS listener contract. Start acquires the
// underlying listener, Stop releases it; Events delivers raw signals
// until Stop.
type Source interface {
	Start() error
	Stop()
	Events() <-chan Event
}

// nullSource never emits events. Used when route watching is disabled.
type nullSource struct {
	events chan Event
}

// NewNullSource returns a Source that never reports route changes.
func NewNullSource() Source {
	return &nullSource{events: make(chan Event)}
}

func (s *nullSource) Start() error { return nil }

func (s *nullSource) Stop() {}

func (s *nullSource) Events() <-chan Event { return s.events }
