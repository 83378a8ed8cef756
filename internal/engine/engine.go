package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/karthikeyanV2K/afot-player/internal/session"
)

const signalBufferSize = 8

// Engine renders audio through the system speaker via beep.
type Engine struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	file     *os.File

	volumeLevel float64
	signals     chan Signal
	closed      bool
}

var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// New creates an engine with no track loaded.
func New() *Engine {
	return &Engine{
		volumeLevel: 1.0,
		signals:     make(chan Signal, signalBufferSize),
	}
}

// Prepare loads a track and hands it to the speaker in a paused state.
// Any previously loaded track is stopped first.
func (e *Engine) Prepare(track session.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	path := track.Path
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return err
	}

	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			return err
		}
		speakerInitialized = true
		speakerSampleRate = format.SampleRate
	}

	e.file = f
	e.streamer = streamer
	e.format = format
	e.ctrl = &beep.Ctrl{Streamer: outputStreamer(streamer, format.SampleRate, speakerSampleRate), Paused: true}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToVolume(e.volumeLevel),
		Silent:   e.volumeLevel <= 0,
	}

	done := streamer
	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		e.emitFinished(done)
	})))

	return nil
}

// outputStreamer adapts a decoded stream to the speaker's sample rate.
// Tracks decoded at another rate are resampled so they keep their
// original pitch and speed.
func outputStreamer(s beep.Streamer, from, to beep.SampleRate) beep.Streamer {
	if from == to {
		return s
	}
	return beep.Resample(4, from, to, s)
}

// emitFinished converts stream completion into an engine signal. A
// decode error discovered at end of stream surfaces as SignalError.
func (e *Engine) emitFinished(s beep.StreamSeekCloser) {
	sig := Signal{Kind: SignalEndOfTrack}
	if err := s.Err(); err != nil {
		sig = Signal{Kind: SignalError, Err: err}
	}
	select {
	case e.signals <- sig:
	default:
	}
}

// Play unpauses the prepared stream. No-op if nothing is loaded.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
}

// Pause suspends output without releasing the loaded track.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

// Stop releases the speaker and the loaded track.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.streamer == nil {
		return
	}

	// Clear drops the active streamer without firing its callback, so
	// a superseded track never emits a stale end-of-track signal.
	speaker.Clear()

	e.streamer.Close()
	e.streamer = nil
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.volume = nil
}

// SeekTo moves playback to the given position.
func (e *Engine) SeekTo(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return fmt.Errorf("no track loaded")
	}

	n := e.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if n > e.streamer.Len() {
		n = e.streamer.Len()
	}

	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	return err
}

// Position returns the current playback position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos)
}

// Duration returns the loaded track's duration.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

// Signals returns the engine's event stream.
func (e *Engine) Signals() <-chan Signal {
	return e.signals
}

// Close stops playback and releases the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.stopLocked()
	return nil
}
