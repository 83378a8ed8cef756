package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"

	"github.com/karthikeyanV2K/afot-player/internal/config"
	"github.com/karthikeyanV2K/afot-player/internal/controller"
	"github.com/karthikeyanV2K/afot-player/internal/engine"
	"github.com/karthikeyanV2K/afot-player/internal/errmsg"
	"github.com/karthikeyanV2K/afot-player/internal/focus"
	"github.com/karthikeyanV2K/afot-player/internal/library"
	"github.com/karthikeyanV2K/afot-player/internal/mpris"
	"github.com/karthikeyanV2K/afot-player/internal/notify"
	"github.com/karthikeyanV2K/afot-player/internal/playlist"
	"github.com/karthikeyanV2K/afot-player/internal/route"
	"github.com/karthikeyanV2K/afot-player/internal/session"
	"github.com/karthikeyanV2K/afot-player/internal/state"
	"github.com/karthikeyanV2K/afot-player/internal/stderr"
)

const positionSaveInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("afot-player: %v\n", err))
		os.Exit(1)
	}
}

func run() error {
	// Capture ALSA noise before the audio engine initializes. The logger
	// must write to the pre-capture stderr, otherwise every re-logged
	// line would land back in the capture pipe.
	if err := stderr.Start(); err == nil {
		defer stderr.Stop()
		log.SetOutput(stderr.Original())
		go func() {
			for line := range stderr.Messages {
				log.Printf("audio: %s", line)
			}
		}()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stateMgr, err := state.Open()
	if err != nil {
		return err
	}
	defer stateMgr.Close()

	saved, err := stateMgr.GetSession()
	if err != nil {
		log.Print(errmsg.Format(errmsg.OpStateLoad, err))
	}

	tracks := scanLibrary(cfg)
	nav := playlist.NewList(tracks...)

	var source route.Source
	if cfg.BluetoothWatchEnabled() {
		source = route.NewBluezSource()
	} else {
		source = route.NewNullSource()
	}

	opts := controller.Options{
		DuckVolume:               cfg.GetPlaybackConfig().DuckVolume,
		ResumeAfterTransientLoss: cfg.ResumeAfterTransientLoss(),
	}

	arb := focus.NewArbiter(focus.NewLocal())
	defer arb.Close()

	ctrl, err := controller.New(engine.New(), arb, route.NewMonitor(source), nav, opts)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer ctrl.Close()

	if cfg.NotificationsEnabled() {
		if notifier, err := notify.New(); err == nil {
			pub := notify.NewPublisher(ctrl, notifier)
			pub.Start()
			defer pub.Stop()
			go func() {
				for msg := range pub.Errors() {
					log.Print(msg)
				}
			}()
		} else {
			log.Printf("notifications unavailable: %v", err)
		}
	}

	if cfg.MprisEnabled() {
		if adapter, err := mpris.New(ctrl); err == nil {
			defer adapter.Close()
		} else {
			log.Print(errmsg.Format(errmsg.OpMprisServe, err))
		}
	}

	restoreSession(ctrl, tracks, saved)
	go persistSession(ctrl, stateMgr, tracks)

	// Run until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	stateMgr.SaveSession(sessionState(ctrl, tracks))
	return nil
}

// scanLibrary walks the configured music folder. A missing or
// unreadable folder degrades to an empty playlist.
func scanLibrary(cfg *config.Config) []session.Track {
	folder := cfg.LibraryFolder
	if folder == "" {
		folder = filepath.Join(xdg.Home, "Music")
	}

	tracks, err := library.Scan(folder)
	if err != nil {
		log.Printf("library scan of %s failed: %v", folder, err)
		return nil
	}
	log.Printf("library: %d tracks in %s", len(tracks), folder)
	return tracks
}

// restoreSession reapplies the saved repeat and shuffle modes and
// resumes the last track at its saved position if it still exists.
func restoreSession(ctrl *controller.Controller, tracks []session.Track, saved *state.SessionState) {
	if saved == nil {
		return
	}

	ctrl.SetRepeatMode(session.RepeatMode(saved.RepeatMode))
	if saved.Shuffle {
		ctrl.SetShuffle(true)
	}

	if saved.TrackPath == "" {
		return
	}
	var track *session.Track
	for i := range tracks {
		if tracks[i].Path == saved.TrackPath {
			track = &tracks[i]
			break
		}
	}
	if track == nil {
		return
	}

	sub := ctrl.Subscribe()
	pos := saved.Position
	ctrl.LoadAndPlay(*track)

	// Seek once playback actually starts; seeking during load is ignored
	go func() {
		for {
			select {
			case ev := <-sub.StateChanged:
				switch ev.Current {
				case session.StatePlaying:
					if pos > 0 {
						ctrl.Seek(pos)
					}
					return
				case session.StateError, session.StateStopped, session.StateIdle:
					return
				}
			case <-sub.Done:
				return
			}
		}
	}()
}

// persistSession saves the session on every meaningful change plus a
// periodic position checkpoint while playing.
func persistSession(ctrl *controller.Controller, stateMgr *state.Manager, tracks []session.Track) {
	sub := ctrl.Subscribe()
	ticker := time.NewTicker(positionSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sub.StateChanged:
		case <-sub.TrackChanged:
		case <-sub.ModeChanged:
		case <-ticker.C:
			if !ctrl.IsPlaying() {
				continue
			}
		case <-sub.Done:
			return
		}
		stateMgr.SaveSession(sessionState(ctrl, tracks))
	}
}

// sessionState captures the controller state for persistence.
func sessionState(ctrl *controller.Controller, tracks []session.Track) state.SessionState {
	snap := ctrl.Snapshot()

	st := state.SessionState{
		Position:   snap.Position,
		RepeatMode: int(snap.Repeat),
		Shuffle:    snap.Shuffle,
		Tracks:     make([]state.SessionTrack, 0, len(tracks)),
	}
	if snap.Track != nil {
		st.TrackPath = snap.Track.Path
	}
	for _, t := range tracks {
		st.Tracks = append(st.Tracks, state.SessionTrack{
			Path:     t.Path,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: t.Duration,
		})
	}
	return st
}
