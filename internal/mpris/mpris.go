//go:build linux

// Package mpris exposes the playback session on the org.mpris
// session-bus interface: the command surface for external controllers
// (desktop shells, headset buttons routed by the desktop) and a
// push-updated view of the session.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/karthikeyanV2K/afot-player/internal/controller"
	"github.com/karthikeyanV2K/afot-player/internal/session"
	"github.com/karthikeyanV2K/afot-player/internal/tags"
)

// Adapter connects the playback controller to MPRIS over D-Bus.
type Adapter struct {
	ctrl   *controller.Controller
	server *server.Server
	events *events.EventHandler
	sub    *controller.Subscription
	done   chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(ctrl *controller.Controller) (*Adapter, error) {
	a := &Adapter{
		ctrl: ctrl,
		done: make(chan struct{}),
	}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{ctrl: ctrl}

	a.server = server.NewServer("afot-player", rootAdapter, playerAdapter)
	a.events = events.NewEventHandler(a.server)
	a.sub = ctrl.Subscribe()

	// Serve the bus in the background and push property changes as the
	// session evolves.
	go func() {
		_ = a.server.Listen()
	}()
	go a.watch()

	return a, nil
}

// watch forwards session changes to the bus as PropertiesChanged.
func (a *Adapter) watch() {
	for {
		select {
		case <-a.sub.StateChanged:
			_ = a.events.Player.OnPlayPause()
		case <-a.sub.TrackChanged:
			_ = a.events.Player.OnTitle()
		case <-a.sub.PositionChanged:
			// Clients poll Position; no dedicated signal needed.
		case <-a.sub.ModeChanged:
			_ = a.events.Player.OnOptions()
		case <-a.sub.Done:
			return
		case <-a.done:
			return
		}
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - the daemon manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "AFOT Player", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and
// optional interfaces. Commands are fire-and-observe: they post into
// the controller and the outcome surfaces through property changes.
type playerAdapter struct {
	ctrl *controller.Controller
}

func (p *playerAdapter) Next() error {
	p.ctrl.SkipNext()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.ctrl.SkipPrevious()
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.ctrl.IsPlaying() {
		p.ctrl.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.ctrl.TogglePlayPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.ctrl.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if !p.ctrl.IsPlaying() {
		p.ctrl.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.ctrl.Position() + time.Duration(offset)*time.Microsecond
	p.ctrl.Seek(pos)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.ctrl.Seek(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.State() {
	case session.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case session.StatePaused, session.StateReady, session.StatePreparing:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.ctrl.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.Path)),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.Title,
		Artist:  []string{track.Artist},
		Album:   track.Album,
	}

	artPath := track.ArtworkPath
	if artPath == "" {
		artPath = tags.FindCoverArt(track.Path)
	}
	if artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.ctrl.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Volume is owned by the focus policy, not remote controls
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctrl.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.ctrl.CurrentTrack() != nil, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.ctrl.CurrentTrack() != nil, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.ctrl.State().CanSeek(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.ctrl.RepeatMode() {
	case session.RepeatOne:
		return types.LoopStatusTrack, nil
	case session.RepeatAll:
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone:
		p.ctrl.SetRepeatMode(session.RepeatOff)
	case types.LoopStatusTrack:
		p.ctrl.SetRepeatMode(session.RepeatOne)
	case types.LoopStatusPlaylist:
		p.ctrl.SetRepeatMode(session.RepeatAll)
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.ctrl.Shuffle(), nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.ctrl.SetShuffle(shuffle)
	return nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
