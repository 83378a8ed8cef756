//go:build linux

package route

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	bluezDeviceInterface = "org.bluez.Device1"
	propertiesInterface  = "org.freedesktop.DBus.Properties"
)

// bluezSource reports wireless route changes by watching BlueZ device
// Connected property changes on the system bus. It does no discovery:
// pairing and scanning belong to the system's Bluetooth stack.
type bluezSource struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	signals chan *dbus.Signal
	events  chan Event
	done    chan struct{}
}

// NewBluezSource returns a Source backed by BlueZ over D-Bus.
func NewBluezSource() Source {
	return &bluezSource{}
}

func (s *bluezSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchArg(0, bluezDeviceInterface),
	); err != nil {
		conn.Close()
		return err
	}

	s.conn = conn
	s.signals = make(chan *dbus.Signal, 32)
	s.events = make(chan Event, signalBufferSize)
	s.done = make(chan struct{})
	conn.Signal(s.signals)

	go s.watch(s.signals, s.events, s.done)
	return nil
}

func (s *bluezSource) watch(in chan *dbus.Signal, out chan Event, done chan struct{}) {
	for {
		select {
		case sig, ok := <-in:
			if !ok {
				return
			}
			ev, ok := parseDeviceSignal(sig)
			if !ok {
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

// parseDeviceSignal extracts a route event from a BlueZ
// PropertiesChanged signal, if it carries a Connected change.
func parseDeviceSignal(sig *dbus.Signal) (Event, bool) {
	if sig == nil || len(sig.Body) < 2 {
		return Event{}, false
	}
	if !strings.HasPrefix(string(sig.Path), "/org/bluez/") {
		return Event{}, false
	}

	iface, ok := sig.Body[0].(string)
	if !ok || iface != bluezDeviceInterface {
		return Event{}, false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return Event{}, false
	}

	v, ok := changed["Connected"]
	if !ok {
		return Event{}, false
	}
	connected, ok := v.Value().(bool)
	if !ok {
		return Event{}, false
	}

	if connected {
		return Event{Type: Connected, Kind: KindWireless}, true
	}
	return Event{Type: Disconnected, Kind: KindWireless}, true
}

func (s *bluezSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}

	close(s.done)
	s.conn.RemoveSignal(s.signals)
	s.conn.Close()
	s.conn = nil
}

func (s *bluezSource) Events() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}
