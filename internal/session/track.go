package session

import "time"

// Track is an immutable description of a playable item. It is sourced
// from the external track provider and never mutated by the
// coordinator.
type Track struct {
	ID          string
	Path        string // playable-content locator
	Title       string
	Artist      string
	Album       string
	Duration    time.Duration
	ArtworkPath string // optional
}

// Same reports whether two tracks refer to the same playable item.
func (t Track) Same(other Track) bool {
	if t.ID != "" && other.ID != "" {
		return t.ID == other.ID
	}
	return t.Path == other.Path
}
