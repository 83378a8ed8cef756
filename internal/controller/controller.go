// Package controller implements the playback session coordinator: the
// single owner of the Session aggregate. User commands, engine
// signals, focus signals, and route signals are all serialized into
// one event loop, so no two of them are ever processed concurrently
// against the session.
package controller

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/karthikeyanV2K/afot-player/internal/engine"
	"github.com/karthikeyanV2K/afot-player/internal/focus"
	"github.com/karthikeyanV2K/afot-player/internal/playlist"
	"github.com/karthikeyanV2K/afot-player/internal/route"
	"github.com/karthikeyanV2K/afot-player/internal/session"
)

const (
	inboxSize   = 64
	loadersSize = 32

	// DefaultDuckVolume is the output scale applied during transient
	// duck focus loss.
	DefaultDuckVolume = 0.3
)

// Options tune controller policy.
type Options struct {
	// DuckVolume is the volume scale applied while ducking (0..1).
	DuckVolume float64
	// ResumeAfterTransientLoss resumes playback when focus returns
	// after a transient loss. Never applies after a permanent loss or
	// a route disconnect.
	ResumeAfterTransientLoss bool
}

// DefaultOptions returns the stock policy.
func DefaultOptions() Options {
	return Options{
		DuckVolume:               DefaultDuckVolume,
		ResumeAfterTransientLoss: true,
	}
}

// Command messages posted by callers.
type (
	cmdLoad    struct{ track session.Track }
	cmdToggle  struct{}
	cmdNext    struct{}
	cmdPrev    struct{}
	cmdSeek    struct{ pos time.Duration }
	cmdRepeat  struct{ mode session.RepeatMode }
	cmdShuffle struct{ enabled bool }
	cmdStop    struct{}
)

// Internal completion messages. Every in-flight prepare and focus
// request is stamped with the generation that issued it; completions
// whose generation no longer matches are discarded.
type (
	loadRequest struct {
		gen   uint64
		track session.Track
	}
	prepareDone struct {
		gen   uint64
		track session.Track
		err   error
	}
	focusResult struct {
		gen    uint64
		result focus.Result
	}
)

// Controller owns the playback session. All mutation happens on its
// event-loop goroutine; callers interact through fire-and-observe
// commands and the Snapshot/Subscribe observation contract.
type Controller struct {
	engine  engine.Interface
	arbiter *focus.Arbiter
	routes  *route.Monitor
	nav     playlist.Navigator
	opts    Options

	// Loop-owned state. Only the run goroutine touches these.
	sess           *session.Session
	pendingPlay    bool
	resumeOnRegain bool

	generation atomic.Uint64

	inbox  chan any
	loads  chan loadRequest
	done   chan struct{}
	closed sync.Once

	snapMu sync.RWMutex
	snap   session.Snapshot

	subs   []*Subscription
	subsMu sync.RWMutex
}

// New creates the controller, acquires the route listener, and starts
// the event loop. Close releases everything.
func New(eng engine.Interface, arbiter *focus.Arbiter, routes *route.Monitor, nav playlist.Navigator, opts Options) (*Controller, error) {
	if opts.DuckVolume <= 0 || opts.DuckVolume >= 1 {
		opts.DuckVolume = DefaultDuckVolume
	}

	if err := routes.Start(); err != nil {
		return nil, err
	}

	c := &Controller{
		engine:  eng,
		arbiter: arbiter,
		routes:  routes,
		nav:     nav,
		opts:    opts,
		sess:    session.New(),
		inbox:   make(chan any, inboxSize),
		loads:   make(chan loadRequest, loadersSize),
		done:    make(chan struct{}),
	}
	c.snap = c.sess.Snapshot()

	go c.run()
	go c.loader()
	return c, nil
}

// run is the single consumer of every signal source. It owns the
// session; nothing outside this goroutine mutates it.
func (c *Controller) run() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.inbox:
			c.handle(msg)
		case sig := <-c.engine.Signals():
			c.handleEngineSignal(sig)
		case sig, ok := <-c.arbiter.Signals():
			if !ok {
				continue
			}
			c.handleFocusSignal(sig)
		case ev, ok := <-c.routes.Signals():
			if !ok {
				continue
			}
			c.handleRouteEvent(ev)
		}
		c.publish()
	}
}

// loader executes prepare requests sequentially off the event loop, so
// a slow engine load never stalls signal processing. Requests
// superseded before they start are skipped; the generation stamp on
// the completion fences the rest.
func (c *Controller) loader() {
	for {
		select {
		case <-c.done:
			return
		case req := <-c.loads:
			if req.gen != c.generation.Load() {
				continue
			}
			c.engine.Stop()
			err := c.engine.Prepare(req.track)
			c.post(prepareDone{gen: req.gen, track: req.track, err: err})
		}
	}
}

// post delivers a message to the event loop without blocking the
// caller. Messages are dropped once the controller is closed.
func (c *Controller) post(msg any) {
	select {
	case c.inbox <- msg:
	case <-c.done:
	}
}

func (c *Controller) handle(msg any) {
	switch m := msg.(type) {
	case cmdLoad:
		c.handleLoad(m.track)
	case cmdToggle:
		c.handleToggle()
	case cmdNext:
		c.handleNext()
	case cmdPrev:
		c.handlePrevious()
	case cmdSeek:
		c.handleSeek(m.pos)
	case cmdRepeat:
		c.sess.Repeat = m.mode
	case cmdShuffle:
		c.handleShuffle(m.enabled)
	case cmdStop:
		c.handleStop()
	case prepareDone:
		c.handlePrepareDone(m)
	case focusResult:
		c.handleFocusResult(m)
	}
}

// publish refreshes the observable snapshot and fans out change events
// in the same event-processing step, so an observer checking state
// right after a command completes sees a consistent reflection.
func (c *Controller) publish() {
	prev := c.snap
	cur := c.sess.Snapshot()

	c.snapMu.Lock()
	c.snap = cur
	c.snapMu.Unlock()

	if prev.State != cur.State {
		c.forEachSub(func(s *Subscription) {
			s.sendState(StateChange{Previous: prev.State, Current: cur.State})
		})
	}
	if !sameTrack(prev.Track, cur.Track) {
		c.forEachSub(func(s *Subscription) {
			s.sendTrack(TrackChange{Previous: prev.Track, Current: cur.Track})
		})
	}
	if prev.Repeat != cur.Repeat || prev.Shuffle != cur.Shuffle {
		c.forEachSub(func(s *Subscription) {
			s.sendMode(ModeChange{Repeat: cur.Repeat, Shuffle: cur.Shuffle})
		})
	}
	if prev.State == cur.State &&
		(prev.Volume != cur.Volume || prev.Focus != cur.Focus || prev.Route != cur.Route) {
		// Focus, route, and volume changes matter to status surfaces
		// even when the playback state is unchanged.
		c.forEachSub(func(s *Subscription) {
			s.sendState(StateChange{Previous: prev.State, Current: cur.State})
		})
	}
}

func sameTrack(a, b *session.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Same(*b)
}

func (c *Controller) forEachSub(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		fn(s)
	}
}

func (c *Controller) fanoutError(e ErrorEvent) {
	c.forEachSub(func(s *Subscription) { s.sendError(e) })
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Snapshot returns the current observable session state, with a live
// playback position while a track is loaded.
func (c *Controller) Snapshot() session.Snapshot {
	c.snapMu.RLock()
	snap := c.snap
	c.snapMu.RUnlock()

	if snap.State.IsActive() || snap.State == session.StateReady {
		snap.Position = c.engine.Position()
	}
	return snap
}

// Close stops the event loop, releases the route listener, the audio
// focus grant, and the engine output, and closes all subscriptions.
func (c *Controller) Close() error {
	c.closed.Do(func() {
		close(c.done)
		c.routes.Stop()
		c.engine.Stop()
		c.arbiter.Release()

		c.subsMu.Lock()
		for _, sub := range c.subs {
			sub.close()
		}
		c.subs = nil
		c.subsMu.Unlock()
	})
	return nil
}
