package sequencer

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func row(pat string) []bool {
	return parseRow(pat, len(pat))
}

func TestFill(t *testing.T) {
	s, _, _, _ := newTestSequencer(Options{})

	if !s.Fill(0, "kick-4floor") {
		t.Fatal("Fill(kick-4floor) = false")
	}
	if got := s.Pattern(0)[0]; !reflect.DeepEqual(got, row("x...x...x...x...")) {
		t.Errorf("row = %v", got)
	}

	if s.Fill(0, "polka-7") {
		t.Error("unknown fill reported success")
	}
	if got := s.Pattern(0)[0]; !reflect.DeepEqual(got, row("x...x...x...x...")) {
		t.Error("unknown fill changed the row")
	}

	s.Euclid(1, 3)
	if got := s.Pattern(0)[1]; !reflect.DeepEqual(got, row("x.....x....x....")) {
		t.Errorf("euclid row = %v", got)
	}
}

func TestRandomizeDensity(t *testing.T) {
	s, _, _, _ := newTestSequencer(Options{Rand: rand.New(rand.NewPCG(7, 11))})

	const trials = 300
	hits := map[int]int{}
	for range trials {
		for _, track := range []int{0, 2} {
			s.Randomize(track)
			for _, on := range s.Pattern(0)[track] {
				if on {
					hits[track]++
				}
			}
		}
	}

	for track, want := range map[int]float64{0: 0.25, 2: 0.40} {
		got := float64(hits[track]) / (trials * 16)
		if got < want-0.05 || got > want+0.05 {
			t.Errorf("track %d density = %.3f, want about %.2f", track, got, want)
		}
	}
	if countOn(s.Pattern(1)) != 0 {
		t.Error("Randomize touched another bank")
	}
}

func TestLoadDemo(t *testing.T) {
	s, _, _, _ := newTestSequencer(Options{})
	s.SwitchPattern(2)
	s.LoadDemo()

	g := s.Pattern(0)
	if !reflect.DeepEqual(g[0], row("x...x...x...x...")) {
		t.Errorf("kick = %v", g[0])
	}
	if !reflect.DeepEqual(g[4], row("..............xx")) {
		t.Errorf("tom = %v", g[4])
	}
	if countOn(g[7:8]) != 16 {
		t.Errorf("perc should play every step")
	}
	if s.CurrentPattern() != 2 {
		t.Error("LoadDemo should not switch patterns")
	}
}

func TestLoadPreset(t *testing.T) {
	s, _, _, rec := newTestSequencer(Options{})
	s.SwitchPattern(3)
	s.SetStepIn(0, 1, 3, true)

	if s.LoadPreset("bossa") {
		t.Fatal("unknown preset reported success")
	}
	if s.CurrentPattern() != 3 || s.BPM() != 120 {
		t.Fatal("unknown preset changed state")
	}

	if !s.LoadPreset("House") {
		t.Fatal("LoadPreset(House) = false")
	}
	if s.CurrentPattern() != 0 || s.BPM() != 124 {
		t.Errorf("pattern %d bpm %d, want 0 and 124", s.CurrentPattern(), s.BPM())
	}
	g := s.Pattern(0)
	if !reflect.DeepEqual(g[0], row("x...x...x...x...")) {
		t.Errorf("kick = %v", g[0])
	}
	if countOn(g[1:2]) != 0 {
		t.Error("house has no snare part, track 1 should be cleared")
	}
	if got := rec.Patterns(); !reflect.DeepEqual(got, []int{3, 0}) {
		t.Errorf("pattern notifications = %v", got)
	}
}
