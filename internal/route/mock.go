package route

import "sync"

// MockSource is a scriptable route source for tests.
type MockSource struct {
	mu         sync.Mutex
	started    bool
	startErr   error
	startCalls int
	stopCalls  int
	events     chan Event
}

// Verify MockSource implements Source at compile time.
var _ Source = (*MockSource)(nil)

// NewMockSource creates a mock route source.
func NewMockSource() *MockSource {
	return &MockSource{events: make(chan Event, 32)}
}

// SetStartErr makes Start fail with err.
func (m *MockSource) SetStartErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// Emit injects a raw route event.
func (m *MockSource) Emit(ev Event) {
	m.events <- ev
}

// StartCalls returns the number of Start calls.
func (m *MockSource) StartCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalls
}

// StopCalls returns the number of Stop calls.
func (m *MockSource) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *MockSource) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
	if m.startErr != nil {
		return m.startErr
	}
	m.started = true
	return nil
}

func (m *MockSource) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.started = false
}

func (m *MockSource) Events() <-chan Event {
	return m.events
}
