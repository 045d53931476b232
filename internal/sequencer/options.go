package sequencer

import (
	"math/rand/v2"
	"time"
)

// Tempo limits in beats per minute.
const (
	MinBPM = 60
	MaxBPM = 200
)

// DefaultVolume is the volume of a fresh track.
const DefaultVolume = 0.7

// DefaultInstruments and DefaultNames describe the eight stock tracks.
// Sessions with more tracks repeat the percussion slot.
var (
	DefaultInstruments = []string{"kick", "snare", "hihat", "clap", "tom", "openhat", "bass", "perc"}
	DefaultNames       = []string{"Kick", "Snare", "Hi-Hat", "Clap", "Tom", "Open HH", "Bass", "Perc"}
)

// Options fixes the dimensions and timing of a session.
type Options struct {
	Patterns int
	Tracks   int
	Steps    int
	BPM      int

	// Lookahead is how far ahead of the audio clock steps are dispatched.
	Lookahead time.Duration
	// Interval is the wall-clock delay between scheduler passes.
	Interval time.Duration

	Clock Clock      // nil means the wall clock
	Rand  *rand.Rand // nil means the global source
}

// DefaultOptions returns 4 banks of 8 tracks by 16 steps at 120 BPM with a
// 100ms lookahead polled every 25ms.
func DefaultOptions() Options {
	return Options{
		Patterns:  4,
		Tracks:    8,
		Steps:     16,
		BPM:       120,
		Lookahead: 100 * time.Millisecond,
		Interval:  25 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Patterns <= 0 {
		o.Patterns = d.Patterns
	}
	if o.Tracks <= 0 {
		o.Tracks = d.Tracks
	}
	if o.Steps <= 0 {
		o.Steps = d.Steps
	}
	if o.BPM == 0 {
		o.BPM = d.BPM
	}
	o.BPM = clampBPM(o.BPM)
	if o.Lookahead <= 0 {
		o.Lookahead = d.Lookahead
	}
	if o.Interval <= 0 {
		o.Interval = d.Interval
	}
	if o.Clock == nil {
		o.Clock = wallClock{}
	}
	return o
}

func defaultInstrument(track int) (id, name string) {
	if track < len(DefaultInstruments) {
		return DefaultInstruments[track], DefaultNames[track]
	}
	return "perc", DefaultNames[len(DefaultNames)-1]
}
