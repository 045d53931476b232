package rhythm

import "sort"

// Preset is a named starting groove. Fills maps an instrument ID to the fill
// applied to every track bound to that instrument; tracks playing anything
// else are left empty.
type Preset struct {
	Name  string
	Title string
	BPM   int
	Fills map[string]string
}

// Presets is the built-in catalog, keyed by Preset.Name.
var Presets = map[string]Preset{
	"house": {
		Name:  "house",
		Title: "Classic House",
		BPM:   124,
		Fills: map[string]string{
			"kick":    "kick-4floor",
			"clap":    "snare-backbeat",
			"hihat":   "hat-8ths",
			"openhat": "kick-offbeat",
			"bass":    "kick-offbeat",
		},
	},
	"techno": {
		Name:  "techno",
		Title: "Driving Techno",
		BPM:   130,
		Fills: map[string]string{
			"kick":    "kick-4floor",
			"clap":    "snare-backbeat",
			"hihat":   "hat-16ths",
			"openhat": "kick-offbeat",
			"perc":    "euclidean-5",
		},
	},
	"hiphop": {
		Name:  "hiphop",
		Title: "Boom Bap",
		BPM:   90,
		Fills: map[string]string{
			"kick":  "kick-broken",
			"snare": "snare-backbeat",
			"hihat": "hat-8ths",
			"perc":  "poly-3over4",
		},
	},
	"trap": {
		Name:  "trap",
		Title: "Trap",
		BPM:   140,
		Fills: map[string]string{
			"kick":  "kick-2step",
			"snare": "snare-halftime",
			"clap":  "snare-halftime",
			"hihat": "hat-trap",
			"bass":  "kick-2step",
		},
	},
	"breakbeat": {
		Name:  "breakbeat",
		Title: "Breakbeat",
		BPM:   135,
		Fills: map[string]string{
			"kick":  "kick-broken",
			"snare": "snare-clap",
			"hihat": "hat-shuffle",
			"tom":   "euclidean-3",
		},
	},
	"euclid": {
		Name:  "euclid",
		Title: "Euclidean Polyrhythm",
		BPM:   110,
		Fills: map[string]string{
			"kick":  "euclidean-3",
			"snare": "every-8",
			"hihat": "euclidean-5",
			"tom":   "poly-5over4",
			"perc":  "euclidean-7",
		},
	},
}

// PresetNames returns the catalog keys, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
