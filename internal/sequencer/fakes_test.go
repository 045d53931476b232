package sequencer

import (
	"sort"
	"sync"
	"time"
)

// fakeClock fires timers only from Advance, in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer

	// ignoreStop makes cancel functions report success without cancelling,
	// so stale passes still run.
	ignoreStop bool
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		if !c.ignoreStop {
			t.stopped = true
		}
		return true
	}
}

// Advance moves time forward by d, running every timer that comes due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.fired && !t.stopped && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

func (c *fakeClock) Seconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Seconds()
}

type trigger struct {
	id     string
	at     float64
	volume float64
}

// fakeEngine records triggers. Its audio clock is the fake wall clock.
type fakeEngine struct {
	clock *fakeClock

	mu       sync.Mutex
	inits    int
	resumes  int
	triggers []trigger
}

func (e *fakeEngine) Init() {
	e.mu.Lock()
	e.inits++
	e.mu.Unlock()
}

func (e *fakeEngine) Resume() {
	e.mu.Lock()
	e.resumes++
	e.mu.Unlock()
}

func (e *fakeEngine) CurrentTime() float64 {
	return e.clock.Seconds()
}

func (e *fakeEngine) PlayInstrument(id string, at, volume float64) {
	e.mu.Lock()
	e.triggers = append(e.triggers, trigger{id: id, at: at, volume: volume})
	e.mu.Unlock()
}

func (e *fakeEngine) Triggers() []trigger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]trigger(nil), e.triggers...)
}

func (e *fakeEngine) count(id string) int {
	n := 0
	for _, t := range e.Triggers() {
		if t.id == id {
			n++
		}
	}
	return n
}

// recorder is an Observer that keeps every notification.
type recorder struct {
	mu          sync.Mutex
	steps       []int
	patterns    []int
	instruments []string
}

func (r *recorder) StepChanged(step int) {
	r.mu.Lock()
	r.steps = append(r.steps, step)
	r.mu.Unlock()
}

func (r *recorder) PatternChanged(p int) {
	r.mu.Lock()
	r.patterns = append(r.patterns, p)
	r.mu.Unlock()
}

func (r *recorder) InstrumentChanged(track int, instrument, name string) {
	r.mu.Lock()
	r.instruments = append(r.instruments, instrument+"/"+name)
	r.mu.Unlock()
}

func (r *recorder) Steps() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.steps...)
}

func (r *recorder) Patterns() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.patterns...)
}

func newTestSequencer(opts Options) (*Sequencer, *fakeClock, *fakeEngine, *recorder) {
	clk := &fakeClock{}
	eng := &fakeEngine{clock: clk}
	rec := &recorder{}
	opts.Clock = clk
	s := New(eng, opts)
	s.SetObserver(rec)
	return s, clk, eng, rec
}
