package midiout

import (
	"fmt"
	"math"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/icco/drumseq/internal/debug"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// gate is how long a drum note is held before its note off.
const gate = 50 * time.Millisecond

// Output plays sequencer triggers as notes on one MIDI channel. Its audio
// clock is wall time since creation; a trigger for a future time is held
// back by a timer until then.
type Output struct {
	mu      sync.Mutex
	send    func(msg midi.Message) error
	port    drivers.Out
	kit     Kit
	channel uint8
	start   time.Time
	pending map[int]func() bool
	nextID  int
	closed  bool

	now   func() time.Time
	after func(d time.Duration, f func()) func() bool
}

// NewOutput plays through send. channel is 1-based, as printed on hardware.
func NewOutput(send func(msg midi.Message) error, kit Kit, channel int) *Output {
	o := &Output{
		send:    send,
		kit:     kit,
		channel: uint8(max(1, min(channel, 16)) - 1), //nolint:gosec // clamped to 0-15
		pending: make(map[int]func() bool),
		now:     time.Now,
		after: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
	}
	o.start = o.now()
	return o
}

// Ports lists the available MIDI output ports.
func Ports() []string {
	var names []string
	for _, out := range midi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// Open connects to the named output port, or the first one when name is
// empty.
func Open(name string, kit Kit, channel int) (*Output, error) {
	var out drivers.Out
	if name == "" {
		outs := midi.GetOutPorts()
		if len(outs) == 0 {
			return nil, fmt.Errorf("no MIDI output ports")
		}
		out = outs[0]
	} else {
		var err error
		out, err = midi.FindOutPort(name)
		if err != nil {
			return nil, fmt.Errorf("find port %q: %w", name, err)
		}
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", out.String(), err)
	}
	debug.Log("midi", "opened %s (kit %s, channel %d)", out.String(), kit.Name, channel)

	o := NewOutput(send, kit, channel)
	o.port = out
	return o, nil
}

// Port is the name of the open port, if any.
func (o *Output) Port() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port == nil {
		return ""
	}
	return o.port.String()
}

func (o *Output) Init()   {}
func (o *Output) Resume() {}

// CurrentTime is seconds since the output was created.
func (o *Output) CurrentTime() float64 {
	return o.now().Sub(o.start).Seconds()
}

// PlayInstrument sends a note for id at time at, held for a short gate.
// Velocity follows volume; a silent hit sends nothing.
func (o *Output) PlayInstrument(id string, at, volume float64) {
	velocity := uint8(math.Round(max(0, min(volume, 1)) * 127))
	if velocity == 0 {
		return
	}
	note := o.kit.Note(id)
	delay := time.Duration((at - o.CurrentTime()) * float64(time.Second))

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.later(max(0, delay), midi.NoteOn(o.channel, note, velocity))
	o.later(max(0, delay)+gate, midi.NoteOff(o.channel, note))
}

// later sends msg after d. Caller holds mu.
func (o *Output) later(d time.Duration, msg midi.Message) {
	id := o.nextID
	o.nextID++
	o.pending[id] = o.after(d, func() {
		o.mu.Lock()
		delete(o.pending, id)
		closed := o.closed
		o.mu.Unlock()

		if !closed {
			o.write(msg)
		}
	})
}

func (o *Output) write(msg midi.Message) {
	if o.send == nil {
		return
	}
	if err := o.send(msg); err != nil {
		debug.Log("midi", "send %s: %v", msg, err)
	}
}

// AllNotesOff drops queued notes and silences the channel.
func (o *Output) AllNotesOff() {
	o.mu.Lock()
	for id, stop := range o.pending {
		stop()
		delete(o.pending, id)
	}
	o.mu.Unlock()

	o.write(midi.ControlChange(o.channel, 123, 0))
}

// Close silences the channel and releases the port.
func (o *Output) Close() error {
	o.AllNotesOff()

	o.mu.Lock()
	o.closed = true
	port := o.port
	o.port = nil
	o.mu.Unlock()

	if port != nil {
		debug.Log("midi", "closing %s", port.String())
		if err := port.Close(); err != nil {
			return fmt.Errorf("close port: %w", err)
		}
	}
	return nil
}
