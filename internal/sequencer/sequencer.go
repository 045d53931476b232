// Package sequencer is the step sequencer core: a bank of step patterns, a
// play/pause/stop transport, and a lookahead scheduler that hands
// timestamped triggers to a playback Engine.
package sequencer

import (
	"math/rand/v2"
	"sync"

	"github.com/icco/drumseq/internal/debug"
)

// Sequencer is safe for concurrent use. One mutex guards the pattern bank
// and the transport, and every scheduler pass runs while holding it, so a
// pass always sees a consistent pattern.
type Sequencer struct {
	mu       sync.Mutex
	opts     Options
	engine   Engine
	clock    Clock
	rand     *rand.Rand
	observer Observer

	bank *Bank

	status        Status
	bpm           int
	currentStep   int
	nextEventTime float64

	// gen invalidates pending passes and step notifications when the
	// transport leaves Playing.
	gen    uint64
	cancel func() bool
}

// New creates a stopped sequencer with empty patterns.
func New(engine Engine, opts Options) *Sequencer {
	opts = opts.withDefaults()
	if engine == nil {
		engine = NopEngine{}
	}
	return &Sequencer{
		opts:   opts,
		engine: engine,
		clock:  opts.Clock,
		rand:   opts.Rand,
		bank:   NewBank(opts.Patterns, opts.Tracks, opts.Steps),
		bpm:    opts.BPM,
	}
}

// Options returns the effective session options.
func (s *Sequencer) Options() Options {
	return s.opts
}

// SetObserver fills the single observer slot. nil clears it.
func (s *Sequencer) SetObserver(o Observer) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

func (s *Sequencer) obs() Observer {
	if s.observer == nil {
		return ObserverFuncs{}
	}
	return s.observer
}

// ToggleStep flips a step in the current pattern.
func (s *Sequencer) ToggleStep(track, step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.Toggle(track, step)
}

// SetStep sets a step in the current pattern.
func (s *Sequencer) SetStep(track, step int, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.Set(s.bank.Current(), track, step, v)
}

// SetStepIn sets a step in pattern p.
func (s *Sequencer) SetStepIn(p, track, step int, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.Set(p, track, step, v)
}

// IsActive reports whether a step of the current pattern is on.
func (s *Sequencer) IsActive(track, step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.Active(track, step)
}

// SwitchPattern makes p current and notifies PatternChanged. An invalid
// index changes nothing and notifies nobody.
func (s *Sequencer) SwitchPattern(p int) {
	s.mu.Lock()
	ok := s.bank.Switch(p)
	o := s.obs()
	s.mu.Unlock()

	if ok {
		o.PatternChanged(p)
	}
}

// CurrentPattern returns the index of the current pattern.
func (s *Sequencer) CurrentPattern() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.Current()
}

// Pattern returns a copy of pattern p, or nil for an invalid index.
func (s *Sequencer) Pattern(p int) Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.Grid(p)
}

// CopyPattern copies the steps of pattern from into pattern to.
func (s *Sequencer) CopyPattern(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.Copy(from, to)
}

// ClearPattern empties the current pattern.
func (s *Sequencer) ClearPattern() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.Clear(s.bank.Current())
}

// ClearAllPatterns empties every pattern bank. Track settings and the
// current bank are kept.
func (s *Sequencer) ClearAllPatterns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.ClearAll()
}

// ClearTrack empties one track of the current pattern.
func (s *Sequencer) ClearTrack(track int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.SetRow(s.bank.Current(), track, nil)
}

// Track returns the controls of one track.
func (s *Sequencer) Track(track int) (TrackControl, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.Control(track)
}

// Tracks returns the controls of every track.
func (s *Sequencer) Tracks() []TrackControl {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.Controls()
}

// SetTrackInstrument rebinds a track and notifies InstrumentChanged. An
// empty displayName keeps the current name.
func (s *Sequencer) SetTrackInstrument(track int, instrument, displayName string) {
	s.mu.Lock()
	ok := s.bank.UpdateControl(track, func(c *TrackControl) {
		c.Instrument = instrument
		if displayName != "" {
			c.Name = displayName
		}
	})
	o := s.obs()
	s.mu.Unlock()

	if ok {
		o.InstrumentChanged(track, instrument, displayName)
	}
}

// SetTrackVolume sets a track's volume from a percentage, clamped to 0-100.
func (s *Sequencer) SetTrackVolume(track int, percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.UpdateControl(track, func(c *TrackControl) {
		c.Volume = max(0, min(percent, 100)) / 100
	})
}

// ToggleMute flips a track's mute and returns the new state.
func (s *Sequencer) ToggleMute(track int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var muted bool
	s.bank.UpdateControl(track, func(c *TrackControl) {
		c.Muted = !c.Muted
		muted = c.Muted
	})
	return muted
}

// ToggleSolo flips a track's solo and returns the new state.
func (s *Sequencer) ToggleSolo(track int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var solo bool
	s.bank.UpdateControl(track, func(c *TrackControl) {
		c.Solo = !c.Solo
		solo = c.Solo
	})
	return solo
}

// Preview sounds a track's instrument now, regardless of transport state.
func (s *Sequencer) Preview(track int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.bank.Control(track)
	if !ok {
		return
	}
	s.engine.Init()
	s.engine.Resume()
	s.engine.PlayInstrument(c.Instrument, s.engine.CurrentTime(), c.Volume)
	debug.Log("sched", "preview track %d (%s)", track, c.Instrument)
}
