package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icco/drumseq/internal/persist"
	"github.com/icco/drumseq/internal/sequencer"
)

func newTestModel(t *testing.T) (Model, *sequencer.Sequencer, *persist.Store) {
	t.Helper()
	seq := sequencer.New(nil, sequencer.DefaultOptions())
	store := persist.NewStore(persist.NewMemoryBackend())
	m := New(seq, store, "")
	seq.SetObserver(m.Observer())
	return m, seq, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// drain feeds every queued observer message back into the model.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case msg := <-m.events:
			m, _ = press(t, m, msg)
		default:
			return m
		}
	}
}

func TestCursorStaysInsideGrid(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("k"), runes("h"))
	if m.cursorX != 0 || m.cursorY != 0 {
		t.Errorf("Expected cursor at 0,0, got %d,%d", m.cursorX, m.cursorY)
	}

	for i := 0; i < 40; i++ {
		m, _ = press(t, m, runes("j"), runes("l"))
	}
	if m.cursorX != 15 || m.cursorY != 7 {
		t.Errorf("Expected cursor at 15,7, got %d,%d", m.cursorX, m.cursorY)
	}
}

func TestToggleStepUnderCursor(t *testing.T) {
	m, seq, _ := newTestModel(t)

	m, _ = press(t, m, runes("j"), runes("l"), runes("l"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !seq.IsActive(1, 2) {
		t.Fatal("Expected step 2 of track 1 to be on")
	}

	press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if seq.IsActive(1, 2) {
		t.Error("Expected second toggle to turn the step off")
	}
}

func TestPatternKeysSwitchBank(t *testing.T) {
	m, seq, _ := newTestModel(t)

	m, _ = press(t, m, runes("3"))
	if seq.CurrentPattern() != 2 {
		t.Fatalf("Expected pattern 2, got %d", seq.CurrentPattern())
	}

	m = drain(t, m)
	if m.message != "Pattern C" {
		t.Errorf("Expected pattern message, got %q", m.message)
	}
}

func TestTempoKeysClamp(t *testing.T) {
	m, seq, _ := newTestModel(t)

	m, _ = press(t, m, runes("+"), runes("="))
	if seq.BPM() != 130 {
		t.Errorf("Expected 130 BPM, got %d", seq.BPM())
	}

	for i := 0; i < 30; i++ {
		m, _ = press(t, m, runes("-"))
	}
	if seq.BPM() != sequencer.MinBPM {
		t.Errorf("Expected BPM clamped to %d, got %d", sequencer.MinBPM, seq.BPM())
	}
}

func TestTrackKeys(t *testing.T) {
	m, seq, _ := newTestModel(t)

	m, _ = press(t, m, runes("m"), runes("o"), runes("["))
	c, _ := seq.Track(0)
	if !c.Muted || !c.Solo {
		t.Errorf("Expected track 0 muted and soloed, got %+v", c)
	}
	if c.Volume < 0.59 || c.Volume > 0.61 {
		t.Errorf("Expected volume 0.6, got %v", c.Volume)
	}

	m, _ = press(t, m, runes("i"))
	c, _ = seq.Track(0)
	if c.Instrument != "snare" || c.Name != "Snare" {
		t.Errorf("Expected kick to cycle to snare, got %s/%s", c.Instrument, c.Name)
	}

	m = drain(t, m)
	if m.message != "Track 1: Snare" {
		t.Errorf("Expected instrument message, got %q", m.message)
	}
}

func TestEuclidKeyAddsHits(t *testing.T) {
	m, seq, _ := newTestModel(t)

	press(t, m, runes("e"), runes("e"), runes("e"))
	row := seq.Pattern(seq.CurrentPattern())[0]
	hits := 0
	for _, on := range row {
		if on {
			hits++
		}
	}
	if hits != 3 {
		t.Errorf("Expected 3 hits after three presses, got %d", hits)
	}
}

func TestFillCyclesPerTrack(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, runes("f"))
	first := m.message
	m, _ = press(t, m, runes("f"))
	if m.message == first {
		t.Errorf("Expected a different fill on the second press, got %q twice", first)
	}
	if !strings.HasPrefix(m.message, "Fill: ") {
		t.Errorf("Expected fill message, got %q", m.message)
	}
}

func TestSaveWritesSlot(t *testing.T) {
	m, seq, store := newTestModel(t)
	seq.ToggleStep(0, 0)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("Expected a save command")
	}
	m, _ = press(t, m, cmd())
	if m.message != `Saved "autosave"` {
		t.Errorf("Expected saved message, got %q", m.message)
	}

	doc, err := store.Load(context.Background(), persist.DefaultSlot)
	if err != nil {
		t.Fatalf("Error loading saved slot: %v", err)
	}
	if !doc.Patterns[0][0][0] {
		t.Error("Expected saved document to keep the toggled step")
	}
}

func TestQuitStopsTransport(t *testing.T) {
	m, seq, _ := newTestModel(t)

	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if seq.Transport().Status != sequencer.Stopped {
		t.Error("Expected sequencer to be stopped")
	}
}

func TestStepMessageMovesClock(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := press(t, m, stepMsg(5))
	if m.step != 5 {
		t.Errorf("Expected step 5, got %d", m.step)
	}
	if cmd == nil {
		t.Error("Expected the model to keep waiting for events")
	}
}

func TestViewShowsTracksAndPatterns(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	for _, want := range []string{"DRUMSEQ", "BPM: 120", "stopped", "Kick", "Hi-Hat", "Perc", "[A]", "Clock"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestRenderClockBar(t *testing.T) {
	bar := renderClockBar(16, sequencer.Playing, 3)
	if strings.Count(bar, "▶") != 1 {
		t.Errorf("Expected one playhead, got %q", bar)
	}
	if strings.Count(bar, "█") != 3 {
		t.Errorf("Expected three played cells, got %q", bar)
	}

	stopped := renderClockBar(16, sequencer.Stopped, 3)
	if strings.Contains(stopped, "▶") {
		t.Error("Expected no playhead while stopped")
	}
}
