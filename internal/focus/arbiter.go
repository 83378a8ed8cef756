package focus

import "sync"

const signalBufferSize = 8

// Arbiter mediates between the playback controller and the system
// audio-focus service. It guarantees that once Release returns, no
// service signal reaches the controller until the next Request: every
// outstanding request is stamped with an epoch and its result dropped
// when stale, while signals are forwarded only while focus is held,
// under the same lock Release uses to flip the flag and drain the
// buffer.
type Arbiter struct {
	svc Service

	mu    sync.Mutex
	held  bool
	epoch uint64

	out  chan Signal
	done chan struct{}
}

// NewArbiter wraps the given focus service and starts forwarding its
// signal stream. Close must be called to release the pump goroutine.
func NewArbiter(svc Service) *Arbiter {
	a := &Arbiter{
		svc:  svc,
		out:  make(chan Signal, signalBufferSize),
		done: make(chan struct{}),
	}
	go a.pump()
	return a
}

func (a *Arbiter) pump() {
	for {
		select {
		case sig, ok := <-a.svc.Signals():
			if !ok {
				return
			}
			// Held check and send stay under the lock so Release can
			// drain the buffer knowing nothing lands after it.
			a.mu.Lock()
			if a.held {
				select {
				case a.out <- sig:
				default:
					// Drop if the controller is not draining.
				}
			}
			a.mu.Unlock()
		case <-a.done:
			return
		}
	}
}

// Request asks the service for playback permission. The result arrives
// on the returned channel; a closed or missing service answer is
// reported as Denied.
func (a *Arbiter) Request() <-chan Result {
	a.mu.Lock()
	a.held = true
	a.epoch++
	epoch := a.epoch
	a.mu.Unlock()

	out := make(chan Result, 1)
	resultCh := a.svc.Request()

	go func() {
		res, ok := <-resultCh
		if !ok {
			res = ResultDenied
		}

		a.mu.Lock()
		stale := a.epoch != epoch || !a.held
		a.mu.Unlock()
		if stale {
			// A release or newer request superseded this one.
			return
		}
		out <- res
	}()

	return out
}

// Release relinquishes focus unconditionally. After it returns, no
// further signals are delivered until the next Request.
func (a *Arbiter) Release() {
	a.mu.Lock()
	a.held = false
	a.epoch++
	// Drain anything already buffered; the pump cannot add more while
	// the lock is held and will drop everything once held is false.
drain:
	for {
		select {
		case <-a.out:
		default:
			break drain
		}
	}
	a.mu.Unlock()

	a.svc.Release()
}

// Held reports whether focus is currently requested and not released.
func (a *Arbiter) Held() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.held
}

// Signals returns the filtered focus signal stream.
func (a *Arbiter) Signals() <-chan Signal {
	return a.out
}

// Close stops the arbiter and its underlying service.
func (a *Arbiter) Close() error {
	close(a.done)
	return a.svc.Close()
}
