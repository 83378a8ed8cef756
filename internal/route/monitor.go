package route

import "sync"

const signalBufferSize = 8

// Monitor owns a Source for the duration of Start..Stop and forwards
// its events, de-duplicating repeated identical signals. Passive: it
// issues no commands, it only reports.
type Monitor struct {
	source Source

	mu      sync.Mutex
	started bool
	last    *Event

	out  chan Event
	done chan struct{}
}

// NewMonitor creates a monitor over the given source.
func NewMonitor(source Source) *Monitor {
	return &Monitor{source: source}
}

// Start acquires the underlying listener and begins forwarding events.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	if err := m.source.Start(); err != nil {
		return err
	}

	m.started = true
	m.last = nil
	m.out = make(chan Event, signalBufferSize)
	m.done = make(chan struct{})
	go m.pump(m.out, m.done)
	return nil
}

func (m *Monitor) pump(out chan Event, done chan struct{}) {
	for {
		select {
		case ev, ok := <-m.source.Events():
			if !ok {
				return
			}
			if !m.record(ev) {
				continue
			}
			select {
			case out <- ev:
			case <-done:
				return
			}
		case <-done:
			return
		}
	}
}

// record remembers the event and reports whether it should be
// forwarded. Identical consecutive signals are dropped.
func (m *Monitor) record(ev Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last != nil && *m.last == ev {
		return false
	}
	e := ev
	m.last = &e
	return true
}

// Stop releases the underlying listener. Signals() stops delivering
// after Stop returns.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	done := m.done
	m.mu.Unlock()

	close(done)
	m.source.Stop()
}

// Signals returns the de-duplicated route event stream. Valid between
// Start and Stop.
func (m *Monitor) Signals() <-chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.out
}
