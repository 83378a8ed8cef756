package notify

import (
	"fmt"
	"sync"

	"github.com/karthikeyanV2K/afot-player/internal/controller"
	"github.com/karthikeyanV2K/afot-player/internal/errmsg"
	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// Player is the slice of the controller the publisher observes.
type Player interface {
	Snapshot() session.Snapshot
	Subscribe() *controller.Subscription
}

// Publisher keeps one persistent status notification synchronized with
// the session. Each state or track change rebuilds and republishes the
// surface in the same event-delivery cycle; there is no batching
// window. Publish failures are reported on Errors and never touch the
// session: presentation only.
type Publisher struct {
	player   Player
	notifier Notifier

	sub  *controller.Subscription
	mu   sync.Mutex
	id   uint32 // notification being replaced, 0 before first publish
	errs chan string
	done chan struct{}
}

// NewPublisher creates a publisher over the given notifier.
func NewPublisher(player Player, notifier Notifier) *Publisher {
	return &Publisher{
		player:   player,
		notifier: notifier,
		errs:     make(chan string, 8),
		done:     make(chan struct{}),
	}
}

// Start subscribes to session changes and begins publishing.
func (p *Publisher) Start() {
	p.sub = p.player.Subscribe()
	go p.loop()
}

func (p *Publisher) loop() {
	for {
		select {
		case <-p.sub.StateChanged:
			p.publish()
		case <-p.sub.TrackChanged:
			p.publish()
		case <-p.sub.ModeChanged:
			p.publish()
		case <-p.sub.Done:
			return
		case <-p.done:
			return
		}
	}
}

func (p *Publisher) publish() {
	snap := p.player.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	if snap.Track == nil {
		// Nothing loaded; retire the surface.
		if p.id != 0 {
			_ = p.notifier.Close(p.id)
			p.id = 0
		}
		return
	}

	id, err := p.notifier.Notify(build(snap, p.id))
	if err != nil {
		p.reportError(err)
		return
	}
	if id != 0 {
		p.id = id
	}
}

// build renders the session into the status surface: track identity,
// a Playing/Paused affordance, and artwork.
func build(snap session.Snapshot, replaces uint32) Notification {
	affordance := "Paused"
	switch snap.State {
	case session.StatePlaying:
		affordance = "Playing"
	case session.StatePreparing:
		affordance = "Loading"
	case session.StateStopped:
		affordance = "Stopped"
	case session.StateError:
		affordance = "Error"
	}

	body := affordance
	if snap.Track.Artist != "" {
		body = fmt.Sprintf("%s — %s", affordance, snap.Track.Artist)
	}

	return Notification{
		Title:      snap.Track.Title,
		Body:       body,
		Icon:       snap.Track.ArtworkPath,
		Timeout:    0, // persistent: the surface lives as long as the session
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}

func (p *Publisher) reportError(err error) {
	select {
	case p.errs <- errmsg.Format(errmsg.OpNotifyPublish, err):
	default:
	}
}

// Errors reports publish failures as formatted messages.
func (p *Publisher) Errors() <-chan string {
	return p.errs
}

// Stop retires the notification and stops publishing.
func (p *Publisher) Stop() {
	close(p.done)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.id != 0 {
		_ = p.notifier.Close(p.id)
		p.id = 0
	}
}
