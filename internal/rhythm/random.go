package rhythm

import (
	"math/rand/v2"
	"strings"
)

// Step densities per instrument class.
const (
	densityLow      = 0.25 // kick, bass
	densityBackbeat = 0.20 // snare, clap, rim
	densityHats     = 0.40
	densityPerc     = 0.50
	densityDefault  = 0.30
)

// Density returns the chance that Randomize activates a step on a track
// playing instrument.
func Density(instrument string) float64 {
	id := strings.ToLower(instrument)
	switch {
	case strings.Contains(id, "kick"), strings.Contains(id, "bass"):
		return densityLow
	case strings.Contains(id, "snare"), strings.Contains(id, "clap"), strings.Contains(id, "rim"):
		return densityBackbeat
	case strings.Contains(id, "hat"):
		return densityHats
	case strings.Contains(id, "perc"), strings.Contains(id, "shaker"), strings.Contains(id, "conga"):
		return densityPerc
	default:
		return densityDefault
	}
}

// Randomize draws a fresh row of steps, each step active independently with
// probability density. A nil r uses the package-level source.
func Randomize(steps int, density float64, r *rand.Rand) []bool {
	if steps <= 0 {
		return nil
	}
	draw := rand.Float64
	if r != nil {
		draw = r.Float64
	}

	row := make([]bool, steps)
	for i := range row {
		row[i] = draw() < density
	}
	return row
}
