package sequencer

import (
	"reflect"
	"testing"
	"time"
)

func TestShouldPlay(t *testing.T) {
	for _, tc := range []struct {
		muted, solo, anySolo bool
		want                 bool
	}{
		{false, false, false, true},
		{true, false, false, false},
		{true, true, true, false},
		{false, true, true, true},
		{false, false, true, false},
	} {
		if got := ShouldPlay(tc.muted, tc.solo, tc.anySolo); got != tc.want {
			t.Errorf("ShouldPlay(muted=%v, solo=%v, anySolo=%v) = %v, want %v",
				tc.muted, tc.solo, tc.anySolo, got, tc.want)
		}
	}
}

func TestSchedulerDispatchesAtStepTimes(t *testing.T) {
	s, clk, eng, rec := newTestSequencer(Options{})
	s.Fill(0, "kick-4floor")
	s.SetTrackVolume(0, 80)

	s.Play()
	if got := eng.Triggers(); len(got) != 1 || got[0] != (trigger{"kick", 0, 0.8}) {
		t.Fatalf("first pass triggers = %v", got)
	}

	clk.Advance(510 * time.Millisecond)
	want := []trigger{{"kick", 0, 0.8}, {"kick", 0.5, 0.8}}
	if got := eng.Triggers(); !reflect.DeepEqual(got, want) {
		t.Errorf("triggers = %v, want %v", got, want)
	}
	if got := rec.Steps(); !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("step notifications = %v, want [0 1 2 3 4]", got)
	}
	if got := s.Transport().Step; got != 5 {
		t.Errorf("current step = %d, want 5", got)
	}
}

func TestStepNotificationWaitsForAudioTime(t *testing.T) {
	s, clk, eng, rec := newTestSequencer(Options{})
	s.Fill(2, "hat-16ths")

	s.Play()
	// Step 1 (0.125s) is dispatched by the pass at 50ms.
	clk.Advance(60 * time.Millisecond)
	if n := len(eng.Triggers()); n != 2 {
		t.Fatalf("got %d triggers at 60ms, want 2", n)
	}
	if got := rec.Steps(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("step notifications at 60ms = %v, want [0]", got)
	}

	clk.Advance(70 * time.Millisecond)
	if got := rec.Steps(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("step notifications at 130ms = %v, want [0 1]", got)
	}
}

func TestSchedulerWrapsAround(t *testing.T) {
	s, clk, eng, _ := newTestSequencer(Options{Steps: 4})
	s.SetStep(0, 0, true)

	s.Play()
	// 4 steps at 120 BPM is half a second.
	clk.Advance(1510 * time.Millisecond)
	var times []float64
	for _, tr := range eng.Triggers() {
		times = append(times, tr.at)
	}
	if want := []float64{0, 0.5, 1, 1.5}; !reflect.DeepEqual(times, want) {
		t.Errorf("trigger times = %v, want %v", times, want)
	}
}

func TestSchedulerCatchesUpInOrder(t *testing.T) {
	s, clk, eng, _ := newTestSequencer(Options{Interval: 500 * time.Millisecond})
	s.Fill(2, "hat-16ths")

	s.Play()
	clk.Advance(500 * time.Millisecond)

	trigs := eng.Triggers()
	if len(trigs) != 5 {
		t.Fatalf("got %d triggers, want 5", len(trigs))
	}
	for i, tr := range trigs {
		if want := float64(i) * 0.125; tr.at != want {
			t.Errorf("trigger %d at %v, want %v", i, tr.at, want)
		}
	}
}

func TestSchedulerMuteSolo(t *testing.T) {
	s, clk, eng, _ := newTestSequencer(Options{})
	for track := 0; track < 5; track++ {
		s.Fill(track, "every-1")
	}
	s.ToggleMute(0)
	s.ToggleSolo(1)
	s.ToggleSolo(2)
	s.ToggleMute(2)

	s.Play()
	clk.Advance(200 * time.Millisecond)

	if eng.count("kick") != 0 {
		t.Error("muted track played")
	}
	if eng.count("snare") == 0 {
		t.Error("soloed track did not play")
	}
	if eng.count("hihat") != 0 {
		t.Error("muted soloed track played")
	}
	for _, id := range []string{"clap", "tom"} {
		if eng.count(id) != 0 {
			t.Errorf("%s played while another track is soloed", id)
		}
	}
}

func TestPauseCancelsPendingPass(t *testing.T) {
	s, clk, eng, rec := newTestSequencer(Options{})
	s.Fill(0, "every-1")

	s.Play()
	clk.Advance(100 * time.Millisecond)
	s.Pause()
	trigs := len(eng.Triggers())
	steps := len(rec.Steps())

	clk.Advance(2 * time.Second)
	if got := len(eng.Triggers()); got != trigs {
		t.Errorf("%d triggers after pause, want %d", got, trigs)
	}
	if got := len(rec.Steps()); got != steps {
		t.Errorf("step notified after pause: %v", rec.Steps()[steps:])
	}
}

func TestStalePassIsIgnored(t *testing.T) {
	s, clk, eng, _ := newTestSequencer(Options{})
	clk.ignoreStop = true
	s.Fill(0, "every-1")

	s.Play()
	clk.Advance(60 * time.Millisecond)
	s.Stop()
	trigs := len(eng.Triggers())

	// The cancelled timer still fires here; its generation is stale.
	clk.Advance(time.Second)
	if got := len(eng.Triggers()); got != trigs {
		t.Errorf("stale pass dispatched %d triggers", got-trigs)
	}

	// A quick restart must not double the loop.
	s.Play()
	s.Pause()
	s.Play()
	base := len(eng.Triggers())
	clk.Advance(500 * time.Millisecond)
	if got := len(eng.Triggers()) - base; got != 4 {
		t.Errorf("%d triggers in half a second, want 4", got)
	}
}

func TestBPMChangeAppliesToNextStep(t *testing.T) {
	s, clk, eng, _ := newTestSequencer(Options{})
	s.Fill(0, "every-1")

	s.Play()
	s.SetBPM(60)
	clk.Advance(760 * time.Millisecond)

	var times []float64
	for _, tr := range eng.Triggers() {
		times = append(times, tr.at)
	}
	// Step 1 was already timed at 120 BPM when the tempo changed.
	if want := []float64{0, 0.125, 0.375, 0.625}; !reflect.DeepEqual(times, want) {
		t.Errorf("trigger times = %v, want %v", times, want)
	}
}

func TestPreview(t *testing.T) {
	s, clk, eng, _ := newTestSequencer(Options{})
	clk.Advance(2 * time.Second)
	s.SetTrackVolume(1, 30)

	s.Preview(1)
	s.Preview(42)
	want := []trigger{{"snare", 2, 0.3}}
	if got := eng.Triggers(); !reflect.DeepEqual(got, want) {
		t.Errorf("triggers = %v, want %v", got, want)
	}
	if s.Transport().Status != Stopped {
		t.Error("preview changed the transport")
	}
}
