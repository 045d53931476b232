package sequencer

import "time"

// Engine is the playback collaborator. Times are seconds on the engine's own
// audio clock. PlayInstrument must accept times in the future and sound the
// instrument at exactly that time. Engine methods are called with the
// sequencer locked and must not call back into it.
type Engine interface {
	Init()
	Resume()
	CurrentTime() float64
	PlayInstrument(id string, at, volume float64)
}

// Clock arms the scheduler's wall-clock timers. The returned function cancels
// the timer and reports whether it was still pending. f must run on another
// goroutine, never inside AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// NopEngine discards every trigger. Its clock never advances.
type NopEngine struct{}

func (NopEngine) Init()                                   {}
func (NopEngine) Resume()                                 {}
func (NopEngine) CurrentTime() float64                    { return 0 }
func (NopEngine) PlayInstrument(string, float64, float64) {}
