//go:build !linux

package route

// stubSource is used on platforms without a BlueZ system bus. It never
// emits events; the built-in output is modeled as RouteNone.
type stubSource struct {
	events chan Event
}

// NewBluezSource returns a no-op Source on non-Linux platforms.
func NewBluezSource() Source {
	return &stubSource{events: make(chan Event)}
}

func (s *stubSource) Start() error { return nil }

func (s *stubSource) Stop() {}

func (s *stubSource) Events() <-chan Event { return s.events }
