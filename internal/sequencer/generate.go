package sequencer

import (
	"strings"

	"github.com/icco/drumseq/internal/rhythm"
)

// Fill replaces a track of the current pattern with a named rhythm. It
// reports false, leaving the track unchanged, for unknown names.
func (s *Sequencer) Fill(track int, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := rhythm.Template(name, s.bank.Steps())
	if !ok {
		return false
	}
	return s.bank.SetRow(s.bank.Current(), track, row)
}

// Euclid spreads hits evenly over a track of the current pattern.
func (s *Sequencer) Euclid(track, hits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank.SetRow(s.bank.Current(), track, rhythm.Euclidean(hits, s.bank.Steps()))
}

// Randomize rewrites a track of the current pattern with random hits, at a
// density suited to the track's instrument.
func (s *Sequencer) Randomize(track int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.bank.Control(track)
	if !ok {
		return
	}
	row := rhythm.Randomize(s.bank.Steps(), rhythm.Density(c.Instrument), s.rand)
	s.bank.SetRow(s.bank.Current(), track, row)
}

// demo is a house beat for the stock eight tracks.
var demo = []string{
	"x...x...x...x...", // kick
	"....x.......x...", // snare
	"x.x.x.x.x.x.x.x.", // hihat
	"....x.......x...", // clap
	"..............xx", // tom
	"...x...x...x...x", // openhat
	"x...x...x...x...", // bass
	"xxxxxxxxxxxxxxxx", // perc
}

// LoadDemo replaces pattern 0 with a house beat.
func (s *Sequencer) LoadDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bank.Clear(0)
	for track, pat := range demo {
		s.bank.SetRow(0, track, parseRow(pat, s.bank.Steps()))
	}
}

func parseRow(pat string, steps int) []bool {
	row := make([]bool, steps)
	for i := range row {
		row[i] = pat[i%len(pat)] == 'x'
	}
	return row
}

// LoadPreset replaces pattern 0 with a preset, sets its tempo and switches
// to pattern 0. Tracks whose instrument the preset does not cover are left
// empty. Unknown names change nothing and return false.
func (s *Sequencer) LoadPreset(name string) bool {
	p, ok := rhythm.Presets[strings.ToLower(name)]
	if !ok {
		return false
	}

	s.mu.Lock()
	s.bank.Clear(0)
	for track, c := range s.bank.Controls() {
		fill, ok := p.Fills[c.Instrument]
		if !ok {
			continue
		}
		if row, ok := rhythm.Template(fill, s.bank.Steps()); ok {
			s.bank.SetRow(0, track, row)
		}
	}
	s.bpm = clampBPM(p.BPM)
	s.bank.Switch(0)
	o := s.obs()
	s.mu.Unlock()

	o.PatternChanged(0)
	return true
}
