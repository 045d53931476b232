package rhythm

import (
	"sort"
	"strconv"
	"strings"
)

// templateSteps is the length every literal template is written for.
const templateSteps = 16

// Literal 16-step templates. 'x' is a hit, '.' is a rest.
var templates = map[string]string{
	"kick-4floor":    "x...x...x...x...",
	"kick-2step":     "x.......x.......",
	"kick-broken":    "x.....x..x....x.",
	"kick-offbeat":   "..x...x...x...x.",
	"hat-8ths":       "x.x.x.x.x.x.x.x.",
	"hat-16ths":      "xxxxxxxxxxxxxxxx",
	"hat-shuffle":    "x.x.xxx.x.x.xxx.",
	"hat-trap":       "x.x.xxxxx.x.xxxx",
	"snare-backbeat": "....x.......x...",
	"snare-halftime": "........x.......",
	"snare-clap":     "....x..x....x...",
	"poly-3over4":    "x....x....x.....",
}

// FillNames lists the fill names offered to users, in display order. Any
// "every-N" or "euclidean-H" name is accepted by Template as well.
var FillNames = []string{
	"every-2", "every-4", "every-8",
	"kick-4floor", "kick-2step", "kick-broken", "kick-offbeat",
	"hat-8ths", "hat-16ths", "hat-shuffle", "hat-trap",
	"snare-backbeat", "snare-halftime", "snare-clap",
	"euclidean-3", "euclidean-5", "euclidean-7",
	"poly-3over4", "poly-5over4",
}

// Template returns the row for a named fill, sized to steps. Literal
// templates are tiled when steps is not 16. The second result is false for
// names that are not in the catalog, including "every-N" with N < 1 and
// numeric suffixes that do not parse.
func Template(name string, steps int) ([]bool, bool) {
	if steps <= 0 {
		return nil, false
	}

	if shape, ok := templates[name]; ok {
		row := make([]bool, steps)
		for i := range row {
			row[i] = shape[i%templateSteps] == 'x'
		}
		return row, true
	}

	kind, arg, found := strings.Cut(name, "-")
	if !found {
		return nil, false
	}

	switch kind {
	case "every":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, false
		}
		row := make([]bool, steps)
		for i := range row {
			row[i] = i%n == 0
		}
		return row, true
	case "euclidean":
		hits, err := strconv.Atoi(arg)
		if err != nil {
			return nil, false
		}
		return Euclidean(hits, steps), true
	case "poly":
		if arg == "5over4" {
			return Euclidean(5, steps), true
		}
	}
	return nil, false
}

// TemplateNames returns the literal catalog names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
