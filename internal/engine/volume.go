package engine

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the output level (0.0 to 1.0). Used by the controller
// for ducking; the level persists across Prepare calls.
func (e *Engine) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.volumeLevel = level

	if e.volume != nil {
		speaker.Lock()
		e.volume.Volume = levelToVolume(level)
		e.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2 where 0 means no change,
// -1 half volume, -2 quarter. We map: 1.0 -> 0, 0.5 -> -1, 0 -> silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
