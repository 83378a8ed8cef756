package playlist

import (
	"math/rand"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

// List is an in-memory Navigator over an ordered set of tracks. With
// shuffle enabled it traverses a stable shuffled permutation instead
// of list order, reshuffled each time shuffle is switched on.
//
// Not safe for concurrent use; the controller serializes all access.
type List struct {
	tracks  []session.Track
	order   []int
	shuffle bool
}

// Verify List implements Navigator at compile time.
var _ Navigator = (*List)(nil)

// NewList creates a navigator over the given tracks.
func NewList(tracks ...session.Track) *List {
	l := &List{tracks: append([]session.Track(nil), tracks...)}
	l.resetOrder()
	return l
}

func (l *List) resetOrder() {
	l.order = make([]int, len(l.tracks))
	for i := range l.order {
		l.order[i] = i
	}
	if l.shuffle {
		rand.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
}

// SetShuffle switches between list order and a shuffled permutation.
func (l *List) SetShuffle(enabled bool) {
	if l.shuffle == enabled {
		return
	}
	l.shuffle = enabled
	l.resetOrder()
}

// Shuffle reports whether shuffled traversal is active.
func (l *List) Shuffle() bool {
	return l.shuffle
}

// position returns the index of current within the traversal order,
// or -1 if current is not in the list.
func (l *List) position(current session.Track) int {
	for pos, idx := range l.order {
		if l.tracks[idx].Same(current) {
			return pos
		}
	}
	return -1
}

// Next returns the track after current, or nil when exhausted. An
// unknown current track restarts from the beginning.
func (l *List) Next(current session.Track) *session.Track {
	if len(l.tracks) == 0 {
		return nil
	}
	pos := l.position(current)
	if pos < 0 {
		return l.First()
	}
	if pos+1 >= len(l.order) {
		return nil
	}
	t := l.tracks[l.order[pos+1]]
	return &t
}

// Previous returns the track before current, or nil when current is
// first or unknown.
func (l *List) Previous(current session.Track) *session.Track {
	pos := l.position(current)
	if pos <= 0 {
		return nil
	}
	t := l.tracks[l.order[pos-1]]
	return &t
}

// First returns the first track in traversal order, or nil for an
// empty list.
func (l *List) First() *session.Track {
	if len(l.tracks) == 0 {
		return nil
	}
	t := l.tracks[l.order[0]]
	return &t
}

// Len returns the number of tracks.
func (l *List) Len() int {
	return len(l.tracks)
}

// Tracks returns a copy of the tracks in list order.
func (l *List) Tracks() []session.Track {
	return append([]session.Track(nil), l.tracks...)
}
