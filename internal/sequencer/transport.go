package sequencer

import (
	"github.com/icco/drumseq/internal/debug"
)

// Status is the transport state.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (st Status) String() string {
	switch st {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// TransportState is a snapshot of the transport.
type TransportState struct {
	Status        Status  `json:"-"`
	State         string  `json:"state"`
	Step          int     `json:"step"`
	BPM           int     `json:"bpm"`
	NextEventTime float64 `json:"nextEventTime"`
}

func (t TransportState) IsPlaying() bool { return t.Status == Playing }
func (t TransportState) IsPaused() bool  { return t.Status == Paused }

// StepDuration is the length of one sixteenth-note step in seconds.
func StepDuration(bpm int) float64 {
	return 60.0 / float64(bpm) / 4
}

func clampBPM(bpm int) int {
	return max(MinBPM, min(bpm, MaxBPM))
}

// Transport returns the current transport state.
func (s *Sequencer) Transport() TransportState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TransportState{
		Status:        s.status,
		State:         s.status.String(),
		Step:          s.currentStep,
		BPM:           s.bpm,
		NextEventTime: s.nextEventTime,
	}
}

func (s *Sequencer) BPM() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm
}

// SetBPM sets the tempo, clamped to [MinBPM, MaxBPM]. A running scheduler
// picks it up from the next step on.
func (s *Sequencer) SetBPM(bpm int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bpm = clampBPM(bpm)
}

// Play starts or resumes playback. It does nothing while already playing.
//
// From Stopped the clock cursor restarts at the engine's current time. From
// Paused the current step is kept and the cursor continues where it left off,
// moved up to the current time if it fell behind, so resuming never replays
// a burst of missed steps.
func (s *Sequencer) Play() {
	s.mu.Lock()
	if s.status == Playing {
		s.mu.Unlock()
		return
	}

	s.engine.Init()
	s.engine.Resume()
	now := s.engine.CurrentTime()
	if s.status == Stopped {
		s.currentStep = 0
		s.nextEventTime = now
	} else if s.nextEventTime < now {
		s.nextEventTime = now
	}
	debug.Log("transport", "%s -> playing at step %d, t=%.3f", s.status, s.currentStep, s.nextEventTime)

	s.status = Playing
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.schedule(gen)
}

// Pause holds playback at the current step. It does nothing unless playing.
func (s *Sequencer) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Playing {
		return
	}
	s.status = Paused
	s.halt()
	debug.Log("transport", "playing -> paused at step %d", s.currentStep)
}

// Stop ends playback and rewinds to step 0, notifying StepChanged(0). It
// does nothing when already stopped.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if s.status == Stopped {
		s.mu.Unlock()
		return
	}
	debug.Log("transport", "%s -> stopped", s.status)
	s.status = Stopped
	s.currentStep = 0
	s.halt()
	o := s.obs()
	s.mu.Unlock()

	o.StepChanged(0)
}

// halt cancels the pending pass and orphans any step notifications still in
// flight. Caller holds mu.
func (s *Sequencer) halt() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
