package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/engine"
	"github.com/karthikeyanV2K/afot-player/internal/focus"
	"github.com/karthikeyanV2K/afot-player/internal/playlist"
	"github.com/karthikeyanV2K/afot-player/internal/route"
	"github.com/karthikeyanV2K/afot-player/internal/session"
)

var (
	trackA = session.Track{ID: "a", Path: "/music/a.mp3", Title: "A", Artist: "X", Duration: 100 * time.Second}
	trackB = session.Track{ID: "b", Path: "/music/b.mp3", Title: "B", Artist: "X", Duration: 90 * time.Second}
	trackC = session.Track{ID: "c", Path: "/music/c.mp3", Title: "C", Artist: "Y", Duration: 80 * time.Second}
)

type fixture struct {
	eng *engine.Mock
	svc *focus.MockService
	src *route.MockSource
	nav *playlist.List
	c   *Controller
}

func newFixture(t *testing.T, opts Options, tracks ...session.Track) *fixture {
	t.Helper()

	f := &fixture{
		eng: engine.NewMock(),
		svc: focus.NewMockService(),
		src: route.NewMockSource(),
		nav: playlist.NewList(tracks...),
	}
	arb := focus.NewArbiter(f.svc)
	mon := route.NewMonitor(f.src)

	c, err := New(f.eng, arb, mon, f.nav, opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	f.c = c

	t.Cleanup(func() {
		c.Close()
		arb.Close()
	})
	return f
}

func waitFor(t *testing.T, c *Controller, desc string, cond func(session.Snapshot) bool) session.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := c.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	snap := c.Snapshot()
	t.Fatalf("timed out waiting for %s; state=%v focus=%v track=%v",
		desc, snap.State, snap.Focus, snap.Track)
	return snap
}

func waitState(t *testing.T, c *Controller, want session.PlaybackState) session.Snapshot {
	t.Helper()
	return waitFor(t, c, "state "+want.String(), func(s session.Snapshot) bool {
		return s.State == want
	})
}

// settle gives the event loop time to process anything outstanding,
// then returns the snapshot. Used for "nothing changed" assertions.
func settle(c *Controller) session.Snapshot {
	time.Sleep(50 * time.Millisecond)
	return c.Snapshot()
}

func checkInvariant(t *testing.T, snap session.Snapshot) {
	t.Helper()
	if snap.State == session.StatePlaying && !snap.Focus.AllowsOutput() {
		t.Fatalf("invariant violated: Playing with focus %v", snap.Focus)
	}
	if snap.Focus != session.FocusTransientDuck && snap.Volume != session.FullVolume {
		t.Fatalf("invariant violated: volume %v outside ducking (focus %v)", snap.Volume, snap.Focus)
	}
}

func TestLoadAndPlay_ReachesPlaying(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)

	f.c.LoadAndPlay(trackA)

	snap := waitState(t, f.c, session.StatePlaying)
	if snap.Focus != session.FocusGranted {
		t.Errorf("Focus = %v, want Granted", snap.Focus)
	}
	if snap.Track == nil || !snap.Track.Same(trackA) {
		t.Errorf("Track = %v, want trackA", snap.Track)
	}
	if !f.eng.Playing() {
		t.Error("engine should be unpaused")
	}
	checkInvariant(t, snap)
}

func TestLoadAndPlay_PrepareFailureThenRecover(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)

	f.eng.SetPrepareErr(errors.New("corrupt stream"))
	f.c.LoadAndPlay(trackA)

	snap := waitState(t, f.c, session.StateError)
	if snap.Reason != session.ErrorDecodeFailed {
		t.Errorf("Reason = %v, want DecodeFailed", snap.Reason)
	}

	// Error is recoverable: loading another track returns to Preparing
	// and on to Playing.
	f.eng.SetPrepareErr(nil)
	f.c.LoadAndPlay(trackB)
	snap = waitState(t, f.c, session.StatePlaying)
	if !snap.Track.Same(trackB) {
		t.Errorf("Track = %v, want trackB", snap.Track)
	}
}

func TestLoadAndPlay_FocusDeniedStaysReady(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.svc.QueueResult(focus.ResultDenied)

	f.c.LoadAndPlay(trackA)

	snap := waitFor(t, f.c, "denied focus", func(s session.Snapshot) bool {
		return s.Focus == session.FocusPermanentLoss
	})
	if snap.State != session.StateReady {
		t.Errorf("State = %v, want Ready (loaded but not started)", snap.State)
	}
	if f.eng.Playing() {
		t.Error("engine must never play without granted focus")
	}
	checkInvariant(t, snap)
}

func TestLoadAndPlay_DelayedFocusStartsOnGrant(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.svc.QueueResult(focus.ResultDelayed)

	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StateReady)

	if snap := settle(f.c); snap.State != session.StateReady {
		t.Fatalf("State = %v, want Ready while grant is pending", snap.State)
	}

	f.svc.Emit(focus.SignalGranted)
	waitState(t, f.c, session.StatePlaying)
}

func TestGenerationFencing_LateCompletionIgnored(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)
	f.eng.SetPrepareDelay(30 * time.Millisecond)

	f.c.LoadAndPlay(trackA)
	// Wait until A's prepare is actually in flight, then supersede it.
	waitFor(t, f.c, "prepare A started", func(session.Snapshot) bool {
		calls := f.eng.PrepareCalls()
		return len(calls) > 0 && calls[0] == trackA.Path
	})
	f.c.LoadAndPlay(trackB)

	snap := waitState(t, f.c, session.StatePlaying)
	if !snap.Track.Same(trackB) {
		t.Fatalf("final track = %v, want trackB only", snap.Track)
	}

	// A's late completion must not have flipped anything back.
	snap = settle(f.c)
	if !snap.Track.Same(trackB) || snap.State != session.StatePlaying {
		t.Errorf("late prepare completion leaked: state=%v track=%v", snap.State, snap.Track)
	}

	calls := f.eng.PrepareCalls()
	if calls[len(calls)-1] != trackB.Path {
		t.Errorf("last prepare = %q, want trackB", calls[len(calls)-1])
	}
}

func TestFocusSignals_InvariantHeldAfterEveryEvent(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	steps := []struct {
		signal    focus.Signal
		wantState session.PlaybackState
		wantFocus session.FocusState
	}{
		{focus.SignalTransientDuck, session.StatePlaying, session.FocusTransientDuck},
		{focus.SignalGranted, session.StatePlaying, session.FocusGranted},
		{focus.SignalTransientLoss, session.StatePaused, session.FocusTransientLoss},
		{focus.SignalGranted, session.StatePlaying, session.FocusGranted},
		{focus.SignalPermanentLoss, session.StatePaused, session.FocusPermanentLoss},
		{focus.SignalGranted, session.StatePaused, session.FocusGranted},
	}

	for i, step := range steps {
		f.svc.Emit(step.signal)
		snap := waitFor(t, f.c, step.signal.String(), func(s session.Snapshot) bool {
			return s.Focus == step.wantFocus && s.State == step.wantState
		})
		checkInvariant(t, snap)
		_ = i
	}
}

func TestDuck_ReducesVolumeAndRestores(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.svc.Emit(focus.SignalTransientDuck)
	snap := waitFor(t, f.c, "ducked", func(s session.Snapshot) bool {
		return s.Focus == session.FocusTransientDuck
	})
	if snap.State != session.StatePlaying {
		t.Errorf("State = %v, want Playing while ducked", snap.State)
	}
	if snap.Volume != DefaultDuckVolume {
		t.Errorf("Volume = %v, want %v", snap.Volume, DefaultDuckVolume)
	}
	if f.eng.VolumeLevel() != DefaultDuckVolume {
		t.Errorf("engine volume = %v, want duck level", f.eng.VolumeLevel())
	}

	f.svc.Emit(focus.SignalGranted)
	snap = waitFor(t, f.c, "volume restored", func(s session.Snapshot) bool {
		return s.Volume == session.FullVolume
	})
	if snap.State != session.StatePlaying {
		t.Errorf("State = %v, want Playing after regain", snap.State)
	}
	if f.eng.VolumeLevel() != session.FullVolume {
		t.Errorf("engine volume = %v, want full", f.eng.VolumeLevel())
	}
}

func TestPermanentLoss_NoAutoResume(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.svc.Emit(focus.SignalPermanentLoss)
	waitState(t, f.c, session.StatePaused)

	f.svc.Emit(focus.SignalGranted)
	if snap := settle(f.c); snap.State != session.StatePaused {
		t.Errorf("State = %v, want Paused (permanent loss never auto-resumes)", snap.State)
	}
}

func TestTransientLoss_ResumeDisabledByPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.ResumeAfterTransientLoss = false
	f := newFixture(t, opts, trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.svc.Emit(focus.SignalTransientLoss)
	waitState(t, f.c, session.StatePaused)

	f.svc.Emit(focus.SignalGranted)
	if snap := settle(f.c); snap.State != session.StatePaused {
		t.Errorf("State = %v, want Paused with resume policy off", snap.State)
	}
}

func TestRouteDisconnected_PausesAndNeverAutoResumes(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.src.Emit(route.Event{Type: route.Connected, Kind: route.KindWired})
	waitFor(t, f.c, "route wired", func(s session.Snapshot) bool {
		return s.Route == session.RouteWired
	})

	f.src.Emit(route.Event{Type: route.Disconnected})
	snap := waitState(t, f.c, session.StatePaused)
	if snap.Route != session.RouteNone {
		t.Errorf("Route = %v, want None after disconnect", snap.Route)
	}

	// A later, unrelated focus grant must not restart playback.
	f.svc.Emit(focus.SignalGranted)
	if snap := settle(f.c); snap.State != session.StatePaused {
		t.Errorf("State = %v, want Paused (no auto-resume after route loss)", snap.State)
	}

	// An explicit user command does resume.
	f.c.TogglePlayPause()
	waitState(t, f.c, session.StatePlaying)
}

func TestRouteAboutToDisconnect_TreatedAsDisconnect(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.src.Emit(route.Event{Type: route.AboutToDisconnect})
	waitState(t, f.c, session.StatePaused)
}

func TestRepeatOne_ReloadsSameTrackAtZero(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)
	f.c.SetRepeatMode(session.RepeatOne)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.eng.EmitEndOfTrack()

	snap := waitFor(t, f.c, "track A reloaded", func(s session.Snapshot) bool {
		return s.State == session.StatePlaying && len(f.eng.PrepareCalls()) >= 2
	})
	if !snap.Track.Same(trackA) {
		t.Errorf("Track = %v, want trackA again", snap.Track)
	}
	calls := f.eng.PrepareCalls()
	if calls[len(calls)-1] != trackA.Path {
		t.Errorf("last prepare = %q, want trackA", calls[len(calls)-1])
	}
	if pos := f.eng.Position(); pos != 0 {
		t.Errorf("position = %v, want 0 after reload", pos)
	}
}

func TestRepeatOff_ExhaustedNavigatorStops(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.eng.EmitEndOfTrack()

	snap := waitState(t, f.c, session.StateStopped)
	if snap.Focus != session.FocusNone {
		t.Errorf("Focus = %v, want None after stop", snap.Focus)
	}
	if f.svc.ReleaseCalls() == 0 {
		t.Error("focus must be released when playback stops")
	}
	if f.eng.Prepared() != nil {
		t.Error("engine output must be released when playback stops")
	}
}

func TestRepeatAll_WrapsToFirstTrack(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)
	f.c.SetRepeatMode(session.RepeatAll)
	f.c.LoadAndPlay(trackB)
	waitState(t, f.c, session.StatePlaying)

	f.eng.EmitEndOfTrack()

	snap := waitFor(t, f.c, "wrap to first", func(s session.Snapshot) bool {
		return s.State == session.StatePlaying && s.Track.Same(trackA)
	})
	checkInvariant(t, snap)
}

func TestSkipNextPrevious(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB, trackC)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.c.SkipNext()
	waitFor(t, f.c, "track B", func(s session.Snapshot) bool {
		return s.State == session.StatePlaying && s.Track.Same(trackB)
	})

	f.c.SkipPrevious()
	waitFor(t, f.c, "track A", func(s session.Snapshot) bool {
		return s.State == session.StatePlaying && s.Track.Same(trackA)
	})

	// Previous on the first track stays on the current track.
	f.c.SkipPrevious()
	if snap := settle(f.c); !snap.Track.Same(trackA) || snap.State != session.StatePlaying {
		t.Errorf("SkipPrevious on first track changed state: %v %v", snap.State, snap.Track)
	}
}

func TestSkipNext_ExhaustedStops(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)
	f.c.LoadAndPlay(trackB)
	waitState(t, f.c, session.StatePlaying)

	f.c.SkipNext()
	waitState(t, f.c, session.StateStopped)
}

func TestSeek_ClampsToTrackBounds(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.c.Seek(10 * time.Minute)
	waitFor(t, f.c, "seek clamped high", func(s session.Snapshot) bool {
		return f.eng.Position() == trackA.Duration
	})

	f.c.Seek(-5 * time.Second)
	waitFor(t, f.c, "seek clamped low", func(s session.Snapshot) bool {
		return f.eng.Position() == 0
	})
}

func TestSeek_IgnoredWhenNothingLoaded(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)

	f.c.Seek(10 * time.Second)
	settle(f.c)

	if pos := f.eng.Position(); pos != 0 {
		t.Errorf("seek in Idle reached the engine: position %v", pos)
	}
}

func TestPauseResume_KeepsPosition(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.eng.SetPosition(30 * time.Second)
	f.c.TogglePlayPause()
	snap := waitState(t, f.c, session.StatePaused)
	if snap.Position != 30*time.Second {
		t.Errorf("paused Position = %v, want 30s", snap.Position)
	}

	f.c.TogglePlayPause()
	waitState(t, f.c, session.StatePlaying)
	if pos := f.eng.Position(); pos != 30*time.Second {
		t.Errorf("resumed position = %v, want 30s", pos)
	}
}

func TestEngineError_ReleasesEverything(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.eng.EmitError(errors.New("underrun"))

	snap := waitState(t, f.c, session.StateError)
	if snap.Reason != session.ErrorRenderFailed {
		t.Errorf("Reason = %v, want RenderFailed", snap.Reason)
	}
	if snap.Focus != session.FocusNone {
		t.Errorf("Focus = %v, want None (released)", snap.Focus)
	}
	if f.svc.ReleaseCalls() == 0 {
		t.Error("focus must be released on engine error")
	}
}

func TestToggle_NoopWhenIdle(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)

	f.c.TogglePlayPause()
	if snap := settle(f.c); snap.State != session.StateIdle {
		t.Errorf("State = %v, want Idle", snap.State)
	}
	if f.svc.RequestCalls() != 0 {
		t.Error("toggle with nothing loaded must not request focus")
	}
}

func TestStop_ResetsToIdle(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA)
	f.c.LoadAndPlay(trackA)
	waitState(t, f.c, session.StatePlaying)

	f.c.Stop()
	snap := waitState(t, f.c, session.StateIdle)
	if snap.Track != nil {
		t.Errorf("Track = %v, want nil after explicit stop", snap.Track)
	}
	if snap.Focus != session.FocusNone {
		t.Errorf("Focus = %v, want None", snap.Focus)
	}
}

func TestModeChanges_AlwaysLegal(t *testing.T) {
	f := newFixture(t, DefaultOptions(), trackA, trackB)

	f.c.SetRepeatMode(session.RepeatAll)
	f.c.SetShuffle(true)

	snap := waitFor(t, f.c, "mode change", func(s session.Snapshot) bool {
		return s.Repeat == session.RepeatAll && s.Shuffle
	})
	if snap.State != session.StateIdle {
		t.Errorf("mode changes must not affect playback state, got %v", snap.State)
	}
	if !f.nav.Shuffle() {
		t.Error("shuffle flag should propagate to the navigator")
	}
}
