// Package midiout plays sequencer triggers on a MIDI port and moves pattern
// banks in and out of Standard MIDI Files.
package midiout

import "sort"

// Kit maps instrument ids to the notes a drum module expects.
type Kit struct {
	Name  string
	Notes map[string]uint8
}

// fallbackInstrument is played for ids the kit does not know.
const fallbackInstrument = "perc"

// Kits contains all available drum kit mappings
var Kits = map[string]Kit{
	"gm": {
		Name: "General MIDI",
		Notes: map[string]uint8{
			"kick":    36,
			"snare":   38,
			"hihat":   42,
			"openhat": 46,
			"tom":     45,
			"crash":   49,
			"ride":    51,
			"clap":    39,
			"rim":     37,
			"cowbell": 56,
			"perc":    75, // clave
			"shaker":  70, // maracas
			"conga":   64,
			"bass":    35, // acoustic bass drum
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: map[string]uint8{
			"kick":    36,
			"snare":   40, // RD-8 uses 40, not 38
			"hihat":   42,
			"openhat": 46,
			"tom":     48,
			"crash":   49,
			"ride":    51,
			"clap":    39,
			"rim":     37,
			"cowbell": 56,
			"perc":    75,
			"shaker":  70,
			"conga":   64,
			"bass":    35,
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: map[string]uint8{
			"kick":    36,
			"snare":   38,
			"hihat":   42,
			"openhat": 46,
			"tom":     43,
			"crash":   49,
			"ride":    51,
			"clap":    39,
			"rim":     37,
			"cowbell": 56,
			"perc":    75,
			"shaker":  70,
			"conga":   64,
			"bass":    35,
		},
	},
}

// KitNames returns the known kit keys, sorted.
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupKit returns the named kit, or General MIDI.
func LookupKit(name string) Kit {
	if k, ok := Kits[name]; ok {
		return k
	}
	return Kits["gm"]
}

// Note returns the note for an instrument. Unknown ids use the perc note.
func (k Kit) Note(instrument string) uint8 {
	if n, ok := k.Notes[instrument]; ok {
		return n
	}
	return k.Notes[fallbackInstrument]
}

// Instrument returns the instrument a note plays in this kit. When several
// instruments share a note the alphabetically first wins.
func (k Kit) Instrument(note uint8) (string, bool) {
	var found string
	for id, n := range k.Notes {
		if n == note && (found == "" || id < found) {
			found = id
		}
	}
	return found, found != ""
}
