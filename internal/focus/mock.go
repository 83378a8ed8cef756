package focus

import "sync"

// MockService is a scriptable focus service for tests.
type MockService struct {
	mu sync.Mutex

	nextResults  []Result
	requestCalls int
	releaseCalls int
	closeCalls   int
	hold         bool // when true, Request answers nothing until ResolvePending

	pending []chan Result
	signals chan Signal
}

// Verify MockService implements Service at compile time.
var _ Service = (*MockService)(nil)

// NewMockService creates a mock that grants every request by default.
func NewMockService() *MockService {
	return &MockService{signals: make(chan Signal, signalBufferSize)}
}

// QueueResult appends a scripted answer for an upcoming request.
func (m *MockService) QueueResult(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextResults = append(m.nextResults, r)
}

// HoldRequests makes requests hang until ResolvePending is called.
func (m *MockService) HoldRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = true
}

// ResolvePending answers every held request with r.
func (m *MockService) ResolvePending(r Result) {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.hold = false
	m.mu.Unlock()
	for _, ch := range pending {
		ch <- r
	}
}

// Emit injects a system-initiated focus signal.
func (m *MockService) Emit(s Signal) {
	m.signals <- s
}

// RequestCalls returns the number of Request calls.
func (m *MockService) RequestCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCalls
}

// ReleaseCalls returns the number of Release calls.
func (m *MockService) ReleaseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseCalls
}

// CloseCalls returns the number of Close calls.
func (m *MockService) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

func (m *MockService) Request() <-chan Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCalls++

	ch := make(chan Result, 1)
	if m.hold {
		m.pending = append(m.pending, ch)
		return ch
	}

	r := ResultGranted
	if len(m.nextResults) > 0 {
		r = m.nextResults[0]
		m.nextResults = m.nextResults[1:]
	}
	ch <- r
	return ch
}

func (m *MockService) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseCalls++
}

func (m *MockService) Signals() <-chan Signal {
	return m.signals
}

func (m *MockService) Close() error {
	m.mu.Lock()
	m.closeCalls++
	m.mu.Unlock()
	close(m.signals)
	return nil
}
