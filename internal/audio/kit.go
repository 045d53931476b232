package audio

import "sort"

// WaveType represents different oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

// Drum describes how one instrument is synthesized: an oscillator whose pitch
// falls exponentially from Tone to ToneEnd over Sweep seconds, blended with
// white noise, under an exponential amplitude decay.
type Drum struct {
	Tone    float64 // Hz at the start of the hit
	ToneEnd float64 // Hz the pitch settles at
	Sweep   float64 // pitch fall time constant, seconds
	Noise   float64 // 0 is pure tone, 1 is pure noise
	Decay   float64 // amplitude time constant, seconds
	Wave    WaveType
	Level   float64
}

// fallbackInstrument plays ids the kit does not know.
const fallbackInstrument = "perc"

// Kit maps instrument ids to drum voices.
var Kit = map[string]Drum{
	"kick":    {Tone: 160, ToneEnd: 48, Sweep: 0.04, Decay: 0.30, Wave: WaveSine, Level: 1.0},
	"snare":   {Tone: 220, ToneEnd: 180, Sweep: 0.02, Noise: 0.65, Decay: 0.12, Wave: WaveTriangle, Level: 0.8},
	"hihat":   {Noise: 1, Decay: 0.035, Level: 0.45},
	"openhat": {Noise: 1, Decay: 0.22, Level: 0.4},
	"clap":    {Tone: 1200, ToneEnd: 900, Sweep: 0.01, Noise: 0.9, Decay: 0.09, Wave: WaveSquare, Level: 0.7},
	"tom":     {Tone: 210, ToneEnd: 120, Sweep: 0.08, Decay: 0.22, Wave: WaveSine, Level: 0.85},
	"bass":    {Tone: 55, ToneEnd: 55, Decay: 0.40, Wave: WaveSawtooth, Level: 0.6},
	"perc":    {Tone: 820, ToneEnd: 620, Sweep: 0.03, Noise: 0.25, Decay: 0.07, Wave: WaveSquare, Level: 0.5},
	"rim":     {Tone: 1700, ToneEnd: 1700, Decay: 0.02, Wave: WaveSquare, Level: 0.5},
	"cowbell": {Tone: 560, ToneEnd: 545, Sweep: 0.1, Decay: 0.18, Wave: WaveSquare, Level: 0.45},
	"shaker":  {Noise: 1, Decay: 0.06, Level: 0.35},
	"conga":   {Tone: 330, ToneEnd: 290, Sweep: 0.05, Noise: 0.05, Decay: 0.16, Wave: WaveSine, Level: 0.7},
	"ride":    {Tone: 5200, ToneEnd: 5000, Sweep: 0.2, Noise: 0.8, Decay: 0.55, Wave: WaveSquare, Level: 0.25},
	"crash":   {Noise: 1, Decay: 0.9, Level: 0.35},
}

// Instruments returns the kit's instrument ids, sorted.
func Instruments() []string {
	ids := make([]string, 0, len(Kit))
	for id := range Kit {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func lookup(id string) Drum {
	if d, ok := Kit[id]; ok {
		return d
	}
	return Kit[fallbackInstrument]
}
