package controller

import (
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/engine"
	"github.com/karthikeyanV2K/afot-player/internal/focus"
	"github.com/karthikeyanV2K/afot-player/internal/route"
	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// handleLoad supersedes whatever was loaded or loading: the output is
// released, the generation advances so stale completions die, and the
// engine prepares the new track off the event loop.
func (c *Controller) handleLoad(track session.Track) {
	gen := c.generation.Add(1)
	c.pendingPlay = false
	c.resumeOnRegain = false

	// Silence the old track right away; the loader releases it fully
	// before preparing the new one.
	c.engine.Pause()

	t := track
	c.sess.Track = &t
	c.sess.State = session.StatePreparing
	c.sess.Reason = session.ErrorNone
	c.sess.Position = 0

	select {
	case c.loads <- loadRequest{gen: gen, track: track}:
	default:
		// The loader is hopelessly behind; treat like a failed prepare.
		c.sess.State = session.StateError
		c.sess.Reason = session.ErrorDecodeFailed
	}
}

func (c *Controller) handlePrepareDone(m prepareDone) {
	if m.gen != c.generation.Load() {
		// A newer load superseded this one.
		return
	}

	if m.err != nil {
		c.sess.State = session.StateError
		c.sess.Reason = session.ErrorDecodeFailed
		c.fanoutError(ErrorEvent{Operation: "prepare", Path: m.track.Path, Err: m.err})
		return
	}

	if c.sess.Track != nil && c.sess.Track.Duration == 0 {
		if d := c.engine.Duration(); d > 0 {
			t := *c.sess.Track
			t.Duration = d
			c.sess.Track = &t
		}
	}

	c.sess.State = session.StateReady
	c.requestFocusForPlay()
}

// requestFocusForPlay records a pending play intent and asks the
// arbiter for focus. The answer comes back through the inbox stamped
// with the current generation.
func (c *Controller) requestFocusForPlay() {
	c.pendingPlay = true
	gen := c.generation.Load()
	ch := c.arbiter.Request()

	go func() {
		res, ok := <-ch
		if !ok {
			return
		}
		c.post(focusResult{gen: gen, result: res})
	}()
}

func (c *Controller) handleFocusResult(m focusResult) {
	if m.gen != c.generation.Load() {
		return
	}

	switch m.result {
	case focus.ResultGranted:
		c.sess.Focus = session.FocusGranted
		c.setVolume(session.FullVolume)
		c.startIfPending()
	case focus.ResultDenied:
		// Denied is treated identically to a permanent loss.
		c.sess.Focus = session.FocusPermanentLoss
		c.pendingPlay = false
		c.resumeOnRegain = false
	case focus.ResultDelayed:
		// Keep the pending intent; the grant arrives as a signal.
	}
}

// startIfPending starts or resumes output if a play intent is waiting
// and the session allows it. Never called without granted focus.
func (c *Controller) startIfPending() {
	if !c.pendingPlay {
		return
	}
	if c.sess.State != session.StateReady && c.sess.State != session.StatePaused {
		return
	}
	c.pendingPlay = false
	c.engine.Play()
	c.sess.State = session.StatePlaying
}

func (c *Controller) handleToggle() {
	switch c.sess.State {
	case session.StatePlaying:
		c.pauseOutput()
		c.resumeOnRegain = false
	case session.StatePaused, session.StateReady:
		if c.sess.Focus == session.FocusGranted && c.arbiter.Held() {
			c.engine.Play()
			c.sess.State = session.StatePlaying
			return
		}
		c.requestFocusForPlay()
	default:
		// Nothing to toggle.
	}
}

func (c *Controller) handleNext() {
	cur := c.sess.Track
	if cur == nil {
		return
	}

	next := c.nav.Next(*cur)
	if next == nil && c.sess.Repeat == session.RepeatAll {
		next = c.nav.First()
	}
	if next == nil {
		c.stopPlayback()
		c.sess.State = session.StateStopped
		return
	}
	c.handleLoad(*next)
}

func (c *Controller) handlePrevious() {
	cur := c.sess.Track
	if cur == nil {
		return
	}

	prev := c.nav.Previous(*cur)
	if prev == nil {
		// Exhausted backwards: stay on the current track.
		return
	}
	c.handleLoad(*prev)
}

func (c *Controller) handleSeek(pos time.Duration) {
	if !c.sess.State.CanSeek() {
		return
	}

	dur := c.engine.Duration()
	if dur == 0 && c.sess.Track != nil {
		dur = c.sess.Track.Duration
	}
	if pos < 0 {
		pos = 0
	}
	if dur > 0 && pos > dur {
		pos = dur
	}

	if err := c.engine.SeekTo(pos); err != nil {
		c.fanoutError(ErrorEvent{Operation: "seek", Err: err})
		return
	}
	c.sess.Position = pos
	c.forEachSub(func(s *Subscription) { s.sendPosition(pos) })
}

func (c *Controller) handleShuffle(enabled bool) {
	c.sess.Shuffle = enabled
	if nav, ok := c.nav.(interface{ SetShuffle(bool) }); ok {
		nav.SetShuffle(enabled)
	}
}

// handleStop is the explicit stop command: everything is released and
// the session returns to Idle.
func (c *Controller) handleStop() {
	c.stopPlayback()
	c.sess.Reset()
}

// stopPlayback stops engine output and releases focus within the same
// logical step: there is never a window where focus is gone but audio
// is still produced.
func (c *Controller) stopPlayback() {
	c.generation.Add(1) // kill in-flight prepares and focus answers
	c.engine.Stop()
	c.arbiter.Release()
	c.sess.Focus = session.FocusNone
	c.setVolume(session.FullVolume)
	c.sess.Position = 0
	c.pendingPlay = false
	c.resumeOnRegain = false
}

func (c *Controller) pauseOutput() {
	c.sess.Position = c.engine.Position()
	c.engine.Pause()
	if c.sess.State == session.StatePlaying {
		c.sess.State = session.StatePaused
	}
}

func (c *Controller) setVolume(level float64) {
	c.sess.Volume = level
	c.engine.SetVolume(level)
}

func (c *Controller) handleEngineSignal(sig engine.Signal) {
	if c.sess.Track == nil {
		return
	}

	switch sig.Kind {
	case engine.SignalEndOfTrack:
		if c.sess.Repeat == session.RepeatOne {
			// Reload the same track from the start.
			c.handleLoad(*c.sess.Track)
			return
		}
		c.handleNext()
	case engine.SignalError:
		track := c.sess.Track.Path
		c.stopPlayback()
		c.sess.State = session.StateError
		c.sess.Reason = session.ErrorRenderFailed
		c.fanoutError(ErrorEvent{Operation: "render", Path: track, Err: sig.Err})
	}
}

func (c *Controller) handleFocusSignal(sig focus.Signal) {
	switch sig {
	case focus.SignalGranted:
		c.sess.Focus = session.FocusGranted
		c.setVolume(session.FullVolume)
		if c.pendingPlay {
			c.startIfPending()
			return
		}
		if c.resumeOnRegain && c.opts.ResumeAfterTransientLoss &&
			c.sess.State == session.StatePaused {
			c.resumeOnRegain = false
			c.engine.Play()
			c.sess.State = session.StatePlaying
		}
	case focus.SignalTransientDuck:
		c.sess.Focus = session.FocusTransientDuck
		c.setVolume(c.opts.DuckVolume)
	case focus.SignalTransientLoss:
		c.sess.Focus = session.FocusTransientLoss
		c.setVolume(session.FullVolume)
		if c.sess.State == session.StatePlaying {
			c.pauseOutput()
			c.resumeOnRegain = true
		}
	case focus.SignalPermanentLoss:
		c.sess.Focus = session.FocusPermanentLoss
		c.setVolume(session.FullVolume)
		if c.sess.State == session.StatePlaying {
			c.pauseOutput()
		}
		c.resumeOnRegain = false
		c.pendingPlay = false
	}
}

func (c *Controller) handleRouteEvent(ev route.Event) {
	switch ev.Type {
	case route.Connected:
		switch ev.Kind {
		case route.KindWired:
			c.sess.Route = session.RouteWired
		case route.KindWireless:
			c.sess.Route = session.RouteWireless
		}
	case route.Disconnected, route.AboutToDisconnect:
		// Route loss pauses immediately and never auto-resumes, even
		// if focus is regained later. The pre-warning is handled the
		// same way, just earlier.
		c.sess.Route = session.RouteNone
		if c.sess.State == session.StatePlaying {
			c.pauseOutput()
		}
		c.resumeOnRegain = false
		c.pendingPlay = false
	}
}
