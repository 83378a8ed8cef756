package engine

import (
	"sync"
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// Mock is a test double for the rendering engine.
type Mock struct {
	mu sync.Mutex

	prepared    *session.Track
	playing     bool
	position    time.Duration
	duration    time.Duration
	volumeLevel float64

	prepareErr   error
	prepareDelay time.Duration

	prepareCalls []string
	playCalls    int
	pauseCalls   int
	stopCalls    int
	seekCalls    []time.Duration

	signals chan Signal
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// NewMock creates a mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		volumeLevel: 1.0,
		signals:     make(chan Signal, signalBufferSize),
	}
}

// SetPrepareErr makes subsequent Prepare calls fail with err.
func (m *Mock) SetPrepareErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepareErr = err
}

// SetPrepareDelay makes Prepare block for d before returning.
func (m *Mock) SetPrepareDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepareDelay = d
}

// SetDuration sets the duration reported for prepared tracks.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// EmitEndOfTrack injects an end-of-track signal.
func (m *Mock) EmitEndOfTrack() {
	m.signals <- Signal{Kind: SignalEndOfTrack}
}

// EmitError injects a rendering error signal.
func (m *Mock) EmitError(err error) {
	m.signals <- Signal{Kind: SignalError, Err: err}
}

func (m *Mock) Prepare(track session.Track) error {
	m.mu.Lock()
	m.prepareCalls = append(m.prepareCalls, track.Path)
	delay := m.prepareDelay
	m.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prepareErr != nil {
		return m.prepareErr
	}
	t := track
	m.prepared = &t
	m.playing = false
	m.position = 0
	return nil
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.prepared != nil {
		m.playing = true
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	m.playing = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.prepared = nil
	m.playing = false
	m.position = 0
}

func (m *Mock) SeekTo(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// SetPosition sets the reported position.
func (m *Mock) SetPosition(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prepared != nil && m.prepared.Duration > 0 {
		return m.prepared.Duration
	}
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumeLevel = level
}

// VolumeLevel returns the last level passed to SetVolume.
func (m *Mock) VolumeLevel() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volumeLevel
}

func (m *Mock) Signals() <-chan Signal {
	return m.signals
}

func (m *Mock) Close() error {
	return nil
}

// Prepared returns the currently prepared track, or nil.
func (m *Mock) Prepared() *session.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepared
}

// Playing returns true if the mock is unpaused.
func (m *Mock) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// PrepareCalls returns the paths passed to Prepare, in order.
func (m *Mock) PrepareCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prepareCalls...)
}

// StopCalls returns how many times Stop was called.
func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// PauseCalls returns how many times Pause was called.
func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}
