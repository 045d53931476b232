package rhythm

import (
	"math/rand/v2"
	"testing"
)

func row(shape string) []bool {
	out := make([]bool, len(shape))
	for i := range shape {
		out[i] = shape[i] == 'x'
	}
	return out
}

func equalRows(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEuclideanFourOnTheFloor(t *testing.T) {
	got := Euclidean(4, 16)
	want := row("x...x...x...x...")
	if !equalRows(got, want) {
		t.Errorf("Euclidean(4, 16) = %v, want %v", got, want)
	}
}

func TestEuclideanHitCount(t *testing.T) {
	for steps := 1; steps <= 32; steps++ {
		for hits := 0; hits <= steps; hits++ {
			got := Euclidean(hits, steps)
			if len(got) != steps {
				t.Fatalf("Euclidean(%d, %d) has %d steps", hits, steps, len(got))
			}
			if n := Count(got); n != hits {
				t.Errorf("Euclidean(%d, %d) has %d hits", hits, steps, n)
			}
			if hits > 0 && !got[0] {
				t.Errorf("Euclidean(%d, %d) does not start on a hit", hits, steps)
			}
		}
	}
}

func TestEuclideanClamps(t *testing.T) {
	tests := []struct {
		name  string
		hits  int
		steps int
		want  int
	}{
		{"negative hits", -3, 16, 0},
		{"zero hits", 0, 16, 0},
		{"too many hits", 40, 16, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Euclidean(tt.hits, tt.steps)
			if n := Count(got); n != tt.want {
				t.Errorf("Euclidean(%d, %d) has %d hits, want %d", tt.hits, tt.steps, n, tt.want)
			}
		})
	}

	if got := Euclidean(3, 0); got != nil {
		t.Errorf("Euclidean(3, 0) = %v, want nil", got)
	}
}

func TestTemplate(t *testing.T) {
	tests := []struct {
		name  string
		shape string
	}{
		{"kick-4floor", "x...x...x...x..."},
		{"kick-offbeat", "..x...x...x...x."},
		{"hat-trap", "x.x.xxxxx.x.xxxx"},
		{"snare-clap", "....x..x....x..."},
		{"poly-3over4", "x....x....x....."},
		{"every-4", "x...x...x...x..."},
		{"every-3", "x..x..x..x..x..x"},
		{"every-1", "xxxxxxxxxxxxxxxx"},
		{"euclidean-4", "x...x...x...x..."},
		{"euclidean-99", "xxxxxxxxxxxxxxxx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Template(tt.name, 16)
			if !ok {
				t.Fatalf("Template(%q) not found", tt.name)
			}
			if !equalRows(got, row(tt.shape)) {
				t.Errorf("Template(%q) = %v, want %s", tt.name, got, tt.shape)
			}
		})
	}
}

func TestTemplatePoly5Over4(t *testing.T) {
	got, ok := Template("poly-5over4", 16)
	if !ok {
		t.Fatal("poly-5over4 not found")
	}
	if !equalRows(got, Euclidean(5, 16)) {
		t.Errorf("poly-5over4 = %v, want Euclidean(5, 16)", got)
	}
}

func TestTemplateUnknown(t *testing.T) {
	for _, name := range []string{"", "kick-", "kick-jungle", "every-0", "every--2", "every-x", "euclidean-", "poly-7over4", "snare"} {
		if got, ok := Template(name, 16); ok {
			t.Errorf("Template(%q) = %v, want unknown", name, got)
		}
	}
}

func TestTemplateTilesToLength(t *testing.T) {
	got, ok := Template("kick-4floor", 32)
	if !ok {
		t.Fatal("kick-4floor not found")
	}
	if !equalRows(got, row("x...x...x...x...x...x...x...x...")) {
		t.Errorf("kick-4floor at 32 steps = %v", got)
	}

	got, _ = Template("snare-backbeat", 8)
	if !equalRows(got, row("....x...")) {
		t.Errorf("snare-backbeat at 8 steps = %v", got)
	}
}

func TestFillNamesResolve(t *testing.T) {
	for _, name := range FillNames {
		if _, ok := Template(name, 16); !ok {
			t.Errorf("fill %q does not resolve", name)
		}
	}
}

func TestDensity(t *testing.T) {
	tests := []struct {
		instrument string
		want       float64
	}{
		{"kick", 0.25},
		{"bass", 0.25},
		{"snare", 0.20},
		{"clap", 0.20},
		{"hihat", 0.40},
		{"openhat", 0.40},
		{"perc", 0.50},
		{"tom", 0.30},
		{"cowbell", 0.30},
	}

	for _, tt := range tests {
		t.Run(tt.instrument, func(t *testing.T) {
			if got := Density(tt.instrument); got != tt.want {
				t.Errorf("Density(%q) = %v, want %v", tt.instrument, got, tt.want)
			}
		})
	}
}

func TestRandomizeDensity(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	const trials = 2000
	const steps = 16
	for _, density := range []float64{0.2, 0.5} {
		hits := 0
		for i := 0; i < trials; i++ {
			hits += Count(Randomize(steps, density, r))
		}
		got := float64(hits) / float64(trials*steps)
		if got < density-0.03 || got > density+0.03 {
			t.Errorf("Randomize density %v produced %v", density, got)
		}
	}
}

func TestRandomizeBounds(t *testing.T) {
	if got := Randomize(0, 0.5, nil); got != nil {
		t.Errorf("Randomize(0) = %v, want nil", got)
	}
	if n := Count(Randomize(16, 0, nil)); n != 0 {
		t.Errorf("Randomize with density 0 gave %d hits", n)
	}
	if n := Count(Randomize(16, 1, nil)); n != 16 {
		t.Errorf("Randomize with density 1 gave %d hits", n)
	}
}

func TestPresetsResolve(t *testing.T) {
	for _, name := range PresetNames() {
		p := Presets[name]
		if p.Name != name {
			t.Errorf("preset %q has Name %q", name, p.Name)
		}
		if p.BPM < 60 || p.BPM > 200 {
			t.Errorf("preset %q BPM %d out of range", name, p.BPM)
		}
		for instrument, fill := range p.Fills {
			if _, ok := Template(fill, 16); !ok {
				t.Errorf("preset %q: fill %q for %s does not resolve", name, fill, instrument)
			}
		}
	}
}
