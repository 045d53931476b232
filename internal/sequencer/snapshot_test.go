package sequencer

import (
	"context"
	"reflect"
	"testing"

	"github.com/icco/drumseq/internal/persist"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := persist.NewStore(persist.NewMemoryBackend())

	a, _, _, _ := newTestSequencer(Options{})
	a.LoadDemo()
	a.CopyPattern(0, 3)
	a.SwitchPattern(3)
	a.ToggleStep(5, 5)
	a.SetBPM(97)
	a.SetTrackVolume(2, 45)
	a.ToggleMute(4)
	a.ToggleSolo(6)
	a.SetTrackInstrument(7, "shaker", "Shaker")
	if err := a.Save(ctx, store, "live"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b, _, _, rec := newTestSequencer(Options{})
	if err := b.Load(ctx, store, "live"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Errorf("loaded state differs:\n got %+v\nwant %+v", b.Snapshot(), a.Snapshot())
	}
	if got := rec.Patterns(); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("pattern notifications = %v, want [3]", got)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	backend := persist.NewMemoryBackend()
	store := persist.NewStore(backend)

	s, _, _, _ := newTestSequencer(Options{})
	s.LoadDemo()
	s.SetBPM(150)
	before := s.Snapshot()

	err := s.Load(ctx, store, "missing")
	if !persist.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}

	if err := backend.Put(ctx, "sequencer_broken", []byte(`{"bpm": 120, "patterns": [[[tru`)); err != nil {
		t.Fatal(err)
	}
	err = s.Load(ctx, store, "broken")
	if !persist.IsCorrupt(err) {
		t.Errorf("err = %v, want corrupt", err)
	}

	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("failed load changed state")
	}
}

func TestRestorePadsShortTrackArrays(t *testing.T) {
	s, _, _, _ := newTestSequencer(Options{})
	s.Restore(persist.Document{
		BPM:          110,
		Pattern:      [][]bool{{true, false, true}},
		TrackVolumes: []float64{0.1, 0.2, 0.3, 0.4},
		TrackMuted:   []bool{true, false, false, true},
	})

	tracks := s.Tracks()
	for i, c := range tracks {
		if i < 4 {
			continue
		}
		if c.Volume != 0.7 || c.Muted || c.Solo {
			t.Errorf("track %d = %+v, want defaults", i, c)
		}
	}
	if tracks[0].Volume != 0.1 || !tracks[3].Muted {
		t.Errorf("stored controls lost: %+v", tracks[:4])
	}
	if tracks[5].Instrument != "openhat" || tracks[5].Name != "Open HH" {
		t.Errorf("track 5 = %+v", tracks[5])
	}
	if !s.IsActive(0, 2) || s.BPM() != 110 {
		t.Error("legacy pattern not promoted to bank 0")
	}
}

func TestRestoreClampsBPM(t *testing.T) {
	s, _, _, _ := newTestSequencer(Options{})
	s.Restore(persist.Document{BPM: 400})
	if s.BPM() != MaxBPM {
		t.Errorf("BPM = %d, want %d", s.BPM(), MaxBPM)
	}
}
