package sequencer

import (
	"time"

	"github.com/icco/drumseq/internal/debug"
)

// ShouldPlay applies the mute and solo rules to an active step: a muted
// track never sounds, and while any track is soloed only soloed tracks do.
func ShouldPlay(muted, solo, anySolo bool) bool {
	return !muted && (!anySolo || solo)
}

// schedule runs one scheduler pass for generation gen and re-arms itself.
// A pass belonging to an older generation does nothing.
func (s *Sequencer) schedule(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.status != Playing {
		return
	}
	s.pass(gen)
	s.cancel = s.clock.AfterFunc(s.opts.Interval, func() { s.schedule(gen) })
}

// pass dispatches every step that starts before now+lookahead, each at its
// own timestamp, in order. Caller holds mu.
func (s *Sequencer) pass(gen uint64) {
	now := s.engine.CurrentTime()
	horizon := now + s.opts.Lookahead.Seconds()

	dispatched := 0
	for s.nextEventTime < horizon {
		s.dispatch(s.currentStep, s.nextEventTime)
		s.notifyStep(gen, s.currentStep, s.nextEventTime-now)

		s.nextEventTime += StepDuration(s.bpm)
		s.currentStep = (s.currentStep + 1) % s.bank.Steps()
		dispatched++
	}
	if dispatched > 1 {
		debug.Log("sched", "pass at t=%.3f dispatched %d steps", now, dispatched)
	} else {
		debug.LogEvery(40, "sched", "pass at t=%.3f next=%.3f", now, s.nextEventTime)
	}
}

// dispatch triggers every audible track of a step at time at. Caller holds mu.
func (s *Sequencer) dispatch(step int, at float64) {
	anySolo := s.bank.AnySolo()
	for track := 0; track < s.bank.Tracks(); track++ {
		if !s.bank.Active(track, step) {
			continue
		}
		c, _ := s.bank.Control(track)
		if ShouldPlay(c.Muted, c.Solo, anySolo) {
			s.engine.PlayInstrument(c.Instrument, at, c.Volume)
		}
	}
}

// notifyStep reports step to the observer once the audio clock reaches it.
// Caller holds mu.
func (s *Sequencer) notifyStep(gen uint64, step int, delay float64) {
	d := time.Duration(max(0, delay) * float64(time.Second))
	s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		live := gen == s.gen
		o := s.obs()
		s.mu.Unlock()

		if live {
			o.StepChanged(step)
		}
	})
}
