// Package rhythm builds single-track step rows: Euclidean distributions,
// named fill templates, density-weighted random rows and the preset catalog.
//
// Every function here is pure apart from Randomize, which draws from the
// random source it is given.
package rhythm

// Euclidean spreads hits onsets as evenly as possible across steps slots.
//
// Step i is active when floor(hits*i/steps) differs from the value for step
// i-1, and step 0 is active whenever there is at least one hit. hits is
// clamped to [0, steps]: zero or negative hits give an all-off row and
// hits > steps gives an all-on row. steps <= 0 returns nil.
func Euclidean(hits, steps int) []bool {
	if steps <= 0 {
		return nil
	}
	hits = max(0, min(hits, steps))

	row := make([]bool, steps)
	if hits == 0 {
		return row
	}

	prev := 0
	for i := 0; i < steps; i++ {
		bucket := hits * i / steps
		if i == 0 || bucket != prev {
			row[i] = true
		}
		prev = bucket
	}
	return row
}

// Count returns the number of active steps in row.
func Count(row []bool) int {
	n := 0
	for _, on := range row {
		if on {
			n++
		}
	}
	return n
}
