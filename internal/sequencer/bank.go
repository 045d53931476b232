package sequencer

// Grid is one pattern: Grid[track][step] is true when the step sounds.
type Grid [][]bool

func newGrid(tracks, steps int) Grid {
	g := make(Grid, tracks)
	for t := range g {
		g[t] = make([]bool, steps)
	}
	return g
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for t, row := range g {
		out[t] = append([]bool(nil), row...)
	}
	return out
}

// TrackControl holds the per-track settings shared by every pattern bank.
type TrackControl struct {
	Instrument string  `json:"instrument"`
	Name       string  `json:"name"`
	Volume     float64 `json:"volume"`
	Muted      bool    `json:"muted"`
	Solo       bool    `json:"solo"`
}

// Bank is the pattern store: a fixed number of equally sized grids, one of
// which is current, plus the track controls. Index arguments out of range
// make every method a no-op that reports false. Bank is not safe for
// concurrent use; Sequencer serializes access to it.
type Bank struct {
	grids    []Grid
	current  int
	controls []TrackControl
	steps    int
}

// NewBank creates patterns empty grids of tracks x steps with stock track
// controls.
func NewBank(patterns, tracks, steps int) *Bank {
	b := &Bank{
		grids:    make([]Grid, patterns),
		controls: make([]TrackControl, tracks),
		steps:    steps,
	}
	for p := range b.grids {
		b.grids[p] = newGrid(tracks, steps)
	}
	for t := range b.controls {
		id, name := defaultInstrument(t)
		b.controls[t] = TrackControl{Instrument: id, Name: name, Volume: DefaultVolume}
	}
	return b
}

func (b *Bank) Patterns() int { return len(b.grids) }
func (b *Bank) Tracks() int   { return len(b.controls) }
func (b *Bank) Steps() int    { return b.steps }
func (b *Bank) Current() int  { return b.current }

func (b *Bank) validPattern(p int) bool { return p >= 0 && p < len(b.grids) }
func (b *Bank) validTrack(t int) bool   { return t >= 0 && t < len(b.controls) }
func (b *Bank) validStep(s int) bool    { return s >= 0 && s < b.steps }

// Toggle flips a step in the current pattern and returns its new value.
func (b *Bank) Toggle(track, step int) (on, ok bool) {
	if !b.validTrack(track) || !b.validStep(step) {
		return false, false
	}
	row := b.grids[b.current][track]
	row[step] = !row[step]
	return row[step], true
}

// Set writes one step of pattern p.
func (b *Bank) Set(p, track, step int, v bool) bool {
	if !b.validPattern(p) || !b.validTrack(track) || !b.validStep(step) {
		return false
	}
	b.grids[p][track][step] = v
	return true
}

// Active reports whether a step of the current pattern is on.
func (b *Bank) Active(track, step int) bool {
	if !b.validTrack(track) || !b.validStep(step) {
		return false
	}
	return b.grids[b.current][track][step]
}

// Switch makes p the current pattern.
func (b *Bank) Switch(p int) bool {
	if !b.validPattern(p) {
		return false
	}
	b.current = p
	return true
}

// Copy overwrites the grid of pattern to with a copy of pattern from. Track
// controls are shared and not copied.
func (b *Bank) Copy(from, to int) bool {
	if !b.validPattern(from) || !b.validPattern(to) {
		return false
	}
	b.grids[to] = b.grids[from].Clone()
	return true
}

// Clear empties pattern p.
func (b *Bank) Clear(p int) bool {
	if !b.validPattern(p) {
		return false
	}
	b.grids[p] = newGrid(len(b.controls), b.steps)
	return true
}

func (b *Bank) ClearAll() {
	for p := range b.grids {
		b.Clear(p)
	}
}

// SetRow replaces a track's row in pattern p. row is truncated or padded
// with rests to the step count.
func (b *Bank) SetRow(p, track int, row []bool) bool {
	if !b.validPattern(p) || !b.validTrack(track) {
		return false
	}
	dst := make([]bool, b.steps)
	copy(dst, row)
	b.grids[p][track] = dst
	return true
}

// Grid returns a copy of pattern p, or nil.
func (b *Bank) Grid(p int) Grid {
	if !b.validPattern(p) {
		return nil
	}
	return b.grids[p].Clone()
}

// Control returns the controls of a track.
func (b *Bank) Control(track int) (TrackControl, bool) {
	if !b.validTrack(track) {
		return TrackControl{}, false
	}
	return b.controls[track], true
}

// Controls returns a copy of every track's controls.
func (b *Bank) Controls() []TrackControl {
	return append([]TrackControl(nil), b.controls...)
}

// UpdateControl applies fn to a track's controls.
func (b *Bank) UpdateControl(track int, fn func(*TrackControl)) bool {
	if !b.validTrack(track) {
		return false
	}
	fn(&b.controls[track])
	return true
}

// AnySolo reports whether at least one track is soloed.
func (b *Bank) AnySolo() bool {
	for _, c := range b.controls {
		if c.Solo {
			return true
		}
	}
	return false
}
