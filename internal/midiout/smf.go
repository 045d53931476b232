package midiout

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarterNote = 960 // Standard MIDI resolution
	stepsPerQuarterNote = 4
	exportVelocity      = 100
)

// Pattern is one pattern bank as stored in a Standard MIDI File.
type Pattern struct {
	BPM         int
	Instruments []string // instrument per track
	Volumes     []float64
	Grid        [][]bool // Grid[track][step]
}

// Export writes p as a format 1 SMF: a tempo track followed by one track per
// pattern track, each hit a one-step note from kit on channel (1-based).
func Export(path string, p Pattern, kit Kit, channel int) error {
	ch := uint8(max(1, min(channel, 16)) - 1) //nolint:gosec // clamped to 0-15

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)

	ticksPerStep := uint32(ticksPerQuarterNote / stepsPerQuarterNote) // 240 ticks per step

	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(4, 4))
	track0.Add(0, smf.MetaTempo(float64(p.BPM)))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	for t, row := range p.Grid {
		var track smf.Track
		var lastTick uint32
		note := kit.Note(instrumentAt(p.Instruments, t))
		velocity := uint8(exportVelocity)
		if t < len(p.Volumes) {
			velocity = uint8(max(1, min(p.Volumes[t], 1)*127)) //nolint:gosec // clamped to 1-127
		}

		for step, on := range row {
			if !on {
				continue
			}
			pos := uint32(step) * ticksPerStep //nolint:gosec // step is bounded by the row length
			track.Add(pos-lastTick, midi.NoteOn(ch, note, velocity))
			// Note off just before the next step
			track.Add(ticksPerStep-1, midi.NoteOff(ch, note))
			lastTick = pos + ticksPerStep - 1
		}

		endTick := uint32(len(row)) * ticksPerStep //nolint:gosec // row length is small
		if lastTick < endTick {
			track.Close(endTick - lastTick)
		} else {
			track.Close(0)
		}
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("error adding track %d: %w", t, err)
		}
	}

	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

func instrumentAt(instruments []string, t int) string {
	if t < len(instruments) {
		return instruments[t]
	}
	return fallbackInstrument
}

// Import reads an SMF into a grid of len(instruments) tracks by steps. A
// note goes to the track whose instrument plays that note in kit; notes no
// track claims go to the track matching their SMF track order. Notes past
// the last step are dropped. The tempo defaults to 120 BPM.
func Import(path string, kit Kit, instruments []string, steps int) (Pattern, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user chosen file
	if err != nil {
		kind := ftag.Internal
		if os.IsNotExist(err) {
			kind = ftag.NotFound
		}
		return Pattern{}, fault.Wrap(err, fmsg.With("read "+path), ftag.With(kind))
	}

	rd, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Pattern{}, fault.Wrap(err,
			fmsg.WithDesc("parse MIDI file", path+" is not a Standard MIDI File."),
			ftag.With(ftag.InvalidArgument))
	}

	p := Pattern{
		BPM:         120,
		Instruments: append([]string(nil), instruments...),
		Grid:        make([][]bool, len(instruments)),
	}
	for t := range p.Grid {
		p.Grid[t] = make([]bool, steps)
	}

	if tempoChanges := rd.TempoChanges(); len(tempoChanges) > 0 {
		p.BPM = int(tempoChanges[0].BPM)
	}

	ticksPerStep := uint32(ticksPerQuarterNote / stepsPerQuarterNote)
	if mt, ok := rd.TimeFormat.(smf.MetricTicks); ok && mt >= stepsPerQuarterNote {
		ticksPerStep = uint32(mt) / stepsPerQuarterNote
	}

	byNote := make(map[uint8]int)
	for t := len(instruments) - 1; t >= 0; t-- {
		byNote[kit.Note(instruments[t])] = t
	}

	for i, track := range rd.Tracks {
		var tick uint32
		for _, ev := range track {
			tick += ev.Delta

			var channel, key, velocity uint8
			if !ev.Message.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
				continue
			}
			step := int(tick / ticksPerStep)
			if step >= steps {
				continue
			}
			t, ok := byNote[key]
			if !ok {
				// Track 0 is the tempo track in our own files.
				t = i - 1
			}
			if t >= 0 && t < len(p.Grid) {
				p.Grid[t][step] = true
			}
		}
	}
	return p, nil
}
