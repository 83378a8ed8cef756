package route

import (
	"errors"
	"testing"
	"time"
)

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for route event")
		return Event{}
	}
}

func expectNoEvent(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v/%v", ev.Type, ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitor_ForwardsEvents(t *testing.T) {
	src := NewMockSource()
	m := NewMonitor(src)
	if err := m.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer m.Stop()

	src.Emit(Event{Type: Connected, Kind: KindWired})

	ev := waitEvent(t, m.Signals())
	if ev.Type != Connected || ev.Kind != KindWired {
		t.Errorf("event = %v/%v, want Connected/Wired", ev.Type, ev.Kind)
	}
}

func TestMonitor_DeduplicatesIdenticalSignals(t *testing.T) {
	src := NewMockSource()
	m := NewMonitor(src)
	if err := m.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer m.Stop()

	src.Emit(Event{Type: Connected, Kind: KindWireless})
	src.Emit(Event{Type: Connected, Kind: KindWireless})
	src.Emit(Event{Type: Connected, Kind: KindWireless})

	waitEvent(t, m.Signals())
	expectNoEvent(t, m.Signals())
}

func TestMonitor_DistinctSignalsPass(t *testing.T) {
	src := NewMockSource()
	m := NewMonitor(src)
	if err := m.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer m.Stop()

	src.Emit(Event{Type: Connected, Kind: KindWired})
	src.Emit(Event{Type: AboutToDisconnect})
	src.Emit(Event{Type: Disconnected})

	if ev := waitEvent(t, m.Signals()); ev.Type != Connected {
		t.Errorf("first event = %v, want Connected", ev.Type)
	}
	if ev := waitEvent(t, m.Signals()); ev.Type != AboutToDisconnect {
		t.Errorf("second event = %v, want AboutToDisconnect", ev.Type)
	}
	if ev := waitEvent(t, m.Signals()); ev.Type != Disconnected {
		t.Errorf("third event = %v, want Disconnected", ev.Type)
	}
}

func TestMonitor_StartStopScopesListener(t *testing.T) {
	src := NewMockSource()
	m := NewMonitor(src)

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("second Start() error: %v", err)
	}
	if src.StartCalls() != 1 {
		t.Errorf("StartCalls = %d, want 1 (Start is idempotent)", src.StartCalls())
	}

	m.Stop()
	m.Stop()
	if src.StopCalls() != 1 {
		t.Errorf("StopCalls = %d, want 1 (Stop is idempotent)", src.StopCalls())
	}
}

func TestMonitor_StartErrorPropagates(t *testing.T) {
	src := NewMockSource()
	src.SetStartErr(errors.New("no system bus"))
	m := NewMonitor(src)

	if err := m.Start(); err == nil {
		t.Fatal("Start() should propagate source error")
	}
}

func TestMonitor_RestartResetsDedup(t *testing.T) {
	src := NewMockSource()
	m := NewMonitor(src)
	if err := m.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	src.Emit(Event{Type: Disconnected})
	waitEvent(t, m.Signals())
	m.Stop()

	if err := m.Start(); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	defer m.Stop()

	// Same signal as before the restart must pass again.
	src.Emit(Event{Type: Disconnected})
	if ev := waitEvent(t, m.Signals()); ev.Type != Disconnected {
		t.Errorf("event = %v, want Disconnected", ev.Type)
	}
}
