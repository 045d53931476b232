// Package persist stores sequencer sessions as JSON documents in an opaque
// key/value backend and upgrades documents written by older versions.
package persist

import (
	"encoding/json"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Defaults applied when a document omits a field.
const (
	DefaultBPM    = 120
	DefaultVolume = 0.7
)

// Document is the persisted session. Pattern is only ever read: it holds the
// single grid of documents written before pattern banks existed.
type Document struct {
	BPM              int        `json:"bpm"`
	Patterns         [][][]bool `json:"patterns,omitempty"`
	Pattern          [][]bool   `json:"pattern,omitempty"`
	CurrentPattern   int        `json:"currentPattern"`
	TrackVolumes     []float64  `json:"trackVolumes,omitempty"`
	TrackMuted       []bool     `json:"trackMuted,omitempty"`
	TrackSolo        []bool     `json:"trackSolo,omitempty"`
	TrackInstruments []string   `json:"trackInstruments,omitempty"`
	TrackNames       []string   `json:"trackNames,omitempty"`
}

// Shape describes the session a document is being loaded into.
type Shape struct {
	Patterns    int
	Tracks      int
	Steps       int
	Instruments []string // default instrument per track
	Names       []string // default display name per track
}

// Upgrade returns a copy of d sized exactly to s.
//
// A legacy Pattern grid becomes bank 0 when Patterns is absent. Grids are
// padded with empty tracks and steps, or truncated. Track arrays shorter
// than s.Tracks are right-padded with defaults: volume 0.7, unmuted, not
// soloed, and the shape's instrument and name for that index. An out of
// range current pattern becomes 0. Volumes are clamped to [0, 1].
func (d Document) Upgrade(s Shape) Document {
	out := Document{
		BPM:            d.BPM,
		CurrentPattern: d.CurrentPattern,
	}
	if out.BPM == 0 {
		out.BPM = DefaultBPM
	}

	banks := d.Patterns
	if banks == nil && d.Pattern != nil {
		banks = [][][]bool{d.Pattern}
	}
	out.Patterns = make([][][]bool, s.Patterns)
	for p := range out.Patterns {
		var src [][]bool
		if p < len(banks) {
			src = banks[p]
		}
		out.Patterns[p] = resizeGrid(src, s.Tracks, s.Steps)
	}
	if out.CurrentPattern < 0 || out.CurrentPattern >= s.Patterns {
		out.CurrentPattern = 0
	}

	out.TrackVolumes = make([]float64, s.Tracks)
	out.TrackMuted = make([]bool, s.Tracks)
	out.TrackSolo = make([]bool, s.Tracks)
	out.TrackInstruments = make([]string, s.Tracks)
	out.TrackNames = make([]string, s.Tracks)
	for t := 0; t < s.Tracks; t++ {
		out.TrackVolumes[t] = DefaultVolume
		if t < len(d.TrackVolumes) {
			out.TrackVolumes[t] = max(0, min(d.TrackVolumes[t], 1))
		}
		if t < len(d.TrackMuted) {
			out.TrackMuted[t] = d.TrackMuted[t]
		}
		if t < len(d.TrackSolo) {
			out.TrackSolo[t] = d.TrackSolo[t]
		}
		out.TrackInstruments[t] = pick(d.TrackInstruments, s.Instruments, t)
		out.TrackNames[t] = pick(d.TrackNames, s.Names, t)
	}
	return out
}

func resizeGrid(src [][]bool, tracks, steps int) [][]bool {
	grid := make([][]bool, tracks)
	for t := range grid {
		grid[t] = make([]bool, steps)
		if t < len(src) {
			copy(grid[t], src[t])
		}
	}
	return grid
}

func pick(values, defaults []string, i int) string {
	if i < len(values) && values[i] != "" {
		return values[i]
	}
	if i < len(defaults) {
		return defaults[i]
	}
	return ""
}

// Encode serializes d.
func Encode(d Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("encode document"), ftag.With(ftag.Internal))
	}
	return data, nil
}

// Decode parses a document. Malformed input, including an empty body or a
// JSON null, is reported as corrupt.
func Decode(data []byte) (Document, error) {
	var raw *Document
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, corrupt(err)
	}
	if raw == nil {
		return Document{}, fault.New("document is null",
			fmsg.WithDesc("decode document", "The saved session is empty."),
			ftag.With(ftag.InvalidArgument))
	}
	return *raw, nil
}

func corrupt(err error) error {
	return fault.Wrap(err,
		fmsg.WithDesc("decode document", "The saved session is unreadable."),
		ftag.With(ftag.InvalidArgument))
}

// IsNotFound reports whether err means the requested document does not exist.
func IsNotFound(err error) bool {
	return err != nil && ftag.Get(err) == ftag.NotFound
}

// IsCorrupt reports whether err means the document exists but cannot be read.
func IsCorrupt(err error) bool {
	return err != nil && ftag.Get(err) == ftag.InvalidArgument
}
