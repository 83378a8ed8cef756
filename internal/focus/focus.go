// Package focus normalizes the system audio-focus service into the
// request/release/signal contract the playback controller consumes.
// Audio focus is the system-mediated permission to produce audible
// output; the coordinator holds it through at most one Arbiter.
package focus

// Result is the outcome of a focus request.
type Result int

const (
	// ResultGranted means focus is held and output may start.
	ResultGranted Result = iota
	// ResultDenied means the request was refused. Treated by the
	// controller like a permanent loss.
	ResultDenied
	// ResultDelayed means the service will answer later through the
	// signal stream.
	ResultDelayed
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultGranted:
		return "Granted"
	case ResultDenied:
		return "Denied"
	case ResultDelayed:
		return "DelayedPending"
	default:
		return "Unknown"
	}
}

// Signal is an asynchronous focus change delivered outside of a direct
// request/release call.
type Signal int

const (
	SignalGranted Signal = iota
	SignalTransientDuck
	SignalTransientLoss
	SignalPermanentLoss
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalGranted:
		return "Granted"
	case SignalTransientDuck:
		return "TransientLossDuck"
	case SignalTransientLoss:
		return "TransientLoss"
	case SignalPermanentLoss:
		return "PermanentLoss"
	default:
		return "Unknown"
	}
}

// Service is the external audio-focus service contract. Request is
// answered asynchronously; Signals carries revocations and
// restorations initiated by the system. An unreachable service must
// answer Denied rather than error.
type Service interface {
	Request() <-chan Result
	Release()
	Signals() <-chan Signal
	Close() error
}
