// Package tui is the terminal front end: a bubbletea program that edits
// and plays a sequencer session.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/icco/drumseq/internal/persist"
	"github.com/icco/drumseq/internal/rhythm"
	"github.com/icco/drumseq/internal/sequencer"
)

const (
	volumeStep = 10
	eventQueue = 64
)

// Messages posted by the sequencer observer.
type (
	stepMsg    int
	patternMsg int

	instrumentMsg struct {
		track      int
		instrument string
		name       string
	}

	savedMsg struct {
		slot string
		err  error
	}
)

// Model is the bubbletea model for a sequencer session.
type Model struct {
	seq   *sequencer.Sequencer
	store *persist.Store
	slot  string

	events chan tea.Msg
	keys   keyMap
	help   help.Model

	cursorX int
	cursorY int
	step    int
	fills   map[int]int
	preset  int
	message string
	width   int
}

// New creates a model editing seq. Saves go to slot in store; a nil store
// disables saving.
func New(seq *sequencer.Sequencer, store *persist.Store, slot string) Model {
	if slot == "" {
		slot = persist.DefaultSlot
	}
	return Model{
		seq:    seq,
		store:  store,
		slot:   slot,
		events: make(chan tea.Msg, eventQueue),
		keys:   defaultKeys(),
		help:   help.New(),
		fills:  make(map[int]int),
		preset: -1,
	}
}

// Observer returns a sequencer observer that forwards notifications into
// the program. Notifications that arrive while the queue is full are
// dropped; the next step supersedes them.
func (m Model) Observer() sequencer.Observer {
	post := func(msg tea.Msg) {
		select {
		case m.events <- msg:
		default:
		}
	}
	return sequencer.ObserverFuncs{
		Step:    func(step int) { post(stepMsg(step)) },
		Pattern: func(p int) { post(patternMsg(p)) },
		Instrument: func(track int, instrument, name string) {
			post(instrumentMsg{track: track, instrument: instrument, name: name})
		},
	}
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case stepMsg:
		m.step = int(msg)
		return m, waitForEvent(m.events)

	case patternMsg:
		m.message = fmt.Sprintf("Pattern %s", patternName(int(msg)))
		return m, waitForEvent(m.events)

	case instrumentMsg:
		m.message = fmt.Sprintf("Track %d: %s", msg.track+1, msg.name)
		return m, waitForEvent(m.events)

	case savedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.message = fmt.Sprintf("Saved %q", msg.slot)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := m.seq.Options()
	track := m.cursorY

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.seq.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursorY > 0 {
			m.cursorY--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursorY < opts.Tracks-1 {
			m.cursorY++
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursorX > 0 {
			m.cursorX--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursorX < opts.Steps-1 {
			m.cursorX++
		}

	case key.Matches(msg, m.keys.Toggle):
		m.seq.ToggleStep(track, m.cursorX)
		if m.seq.IsActive(track, m.cursorX) && !m.seq.Transport().IsPlaying() {
			m.seq.Preview(track)
		}
	case key.Matches(msg, m.keys.Play):
		if m.seq.Transport().IsPlaying() {
			m.seq.Pause()
		} else {
			m.seq.Play()
		}
	case key.Matches(msg, m.keys.Stop):
		m.seq.Stop()
	case key.Matches(msg, m.keys.Faster):
		m.seq.SetBPM(m.seq.BPM() + 5)
	case key.Matches(msg, m.keys.Slower):
		m.seq.SetBPM(m.seq.BPM() - 5)

	case key.Matches(msg, m.keys.Pattern):
		m.seq.SwitchPattern(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Fill):
		name := rhythm.FillNames[m.fills[track]%len(rhythm.FillNames)]
		m.fills[track]++
		m.seq.Fill(track, name)
		m.message = fmt.Sprintf("Fill: %s", name)
	case key.Matches(msg, m.keys.Euclid):
		hits := rhythm.Count(m.seq.Pattern(m.seq.CurrentPattern())[track]) + 1
		if hits > opts.Steps {
			hits = 0
		}
		m.seq.Euclid(track, hits)
		m.message = fmt.Sprintf("Euclid: %d/%d", hits, opts.Steps)
	case key.Matches(msg, m.keys.Randomize):
		m.seq.Randomize(track)
	case key.Matches(msg, m.keys.Clear):
		m.seq.ClearTrack(track)

	case key.Matches(msg, m.keys.Mute):
		m.seq.ToggleMute(track)
	case key.Matches(msg, m.keys.Solo):
		m.seq.ToggleSolo(track)
	case key.Matches(msg, m.keys.Louder), key.Matches(msg, m.keys.Quieter):
		c, ok := m.seq.Track(track)
		if !ok {
			break
		}
		delta := volumeStep
		if key.Matches(msg, m.keys.Quieter) {
			delta = -volumeStep
		}
		m.seq.SetTrackVolume(track, c.Volume*100+float64(delta))
	case key.Matches(msg, m.keys.Voice):
		c, ok := m.seq.Track(track)
		if !ok {
			break
		}
		next := nextInstrument(c.Instrument)
		m.seq.SetTrackInstrument(track, next, displayName(next))
	case key.Matches(msg, m.keys.Preset):
		names := rhythm.PresetNames()
		m.preset = (m.preset + 1) % len(names)
		m.seq.LoadPreset(names[m.preset])
		m.message = fmt.Sprintf("Preset: %s", names[m.preset])

	case key.Matches(msg, m.keys.Save):
		if m.store == nil {
			m.message = "No storage configured"
			break
		}
		return m, m.save()
	}

	return m, nil
}

func (m Model) save() tea.Cmd {
	seq, store, slot := m.seq, m.store, m.slot
	return func() tea.Msg {
		return savedMsg{slot: slot, err: seq.Save(context.Background(), store, slot)}
	}
}

// nextInstrument cycles through the stock instruments.
func nextInstrument(id string) string {
	i := slices.Index(sequencer.DefaultInstruments, id)
	return sequencer.DefaultInstruments[(i+1)%len(sequencer.DefaultInstruments)]
}

func displayName(id string) string {
	if i := slices.Index(sequencer.DefaultInstruments, id); i >= 0 {
		return sequencer.DefaultNames[i]
	}
	return id
}

func patternName(p int) string {
	if p >= 0 && p < 26 {
		return string(rune('A' + p))
	}
	return fmt.Sprint(p + 1)
}

func (m Model) View() string {
	opts := m.seq.Options()
	transport := m.seq.Transport()
	current := m.seq.CurrentPattern()
	grid := m.seq.Pattern(current)
	tracks := m.seq.Tracks()
	playing := transport.Status != sequencer.Stopped

	var b strings.Builder

	b.WriteString(titleStyle.Render("DRUMSEQ") + "\n\n")
	b.WriteString(fmt.Sprintf("BPM: %d   %s\n", transport.BPM, transport.Status))

	b.WriteString("Pattern:")
	for p := 0; p < opts.Patterns; p++ {
		label := fmt.Sprintf(" %s ", patternName(p))
		if p == current {
			label = selectedStyle.Render("[" + patternName(p) + "]")
		}
		b.WriteString(label)
	}
	b.WriteString("\n\n")

	b.WriteString(renderClockBar(opts.Steps, transport.Status, m.step) + "\n\n")

	// Name column is 10 wide, flags and volume another 8.
	b.WriteString(fmt.Sprintf("%-10s%-8s", "Track", "M S Vol"))
	for i := 0; i < opts.Steps; i++ {
		b.WriteString(fmt.Sprintf(" %X ", i%16))
	}
	b.WriteString("\n")

	for t, c := range tracks {
		name := fmt.Sprintf("%-10s", truncate(c.Name, 9))
		if t == m.cursorY {
			name = selectedStyle.Render(name)
		}
		b.WriteString(name)
		b.WriteString(flag(c.Muted, "M", mutedStyle) + " " + flag(c.Solo, "S", soloStyle))
		b.WriteString(fmt.Sprintf(" %3d  ", int(c.Volume*100+0.5)))

		for step := 0; step < opts.Steps; step++ {
			on := t < len(grid) && grid[t][step]
			cell := " · "
			if on {
				cell = " ● "
			}

			cellStyle := lipgloss.NewStyle().Width(3)
			if t == m.cursorY && step == m.cursorX {
				cellStyle = cellStyle.Background(lipgloss.Color("#7D56F4"))
			}
			switch {
			case on && c.Muted:
				cellStyle = cellStyle.Foreground(lipgloss.Color("#444444"))
			case on:
				cellStyle = cellStyle.Foreground(lipgloss.Color("#FFD700"))
			case playing && step == m.step:
				cellStyle = cellStyle.Foreground(lipgloss.Color("#00FF00")).Bold(true)
			default:
				cellStyle = cellStyle.Foreground(lipgloss.Color("#666666"))
			}
			b.WriteString(cellStyle.Render(cell))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))

	return b.String()
}

func flag(set bool, label string, style lipgloss.Style) string {
	if !set {
		return helpStyle.Render("·")
	}
	return style.Render(label)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func renderClockBar(steps int, status sequencer.Status, currentStep int) string {
	running := status != sequencer.Stopped

	bar := strings.Builder{}
	// 18 chars to align with the grid's name, flag and volume columns.
	bar.WriteString(fmt.Sprintf("%-18s", "Clock"))

	for i := 0; i < steps; i++ {
		var cell string
		var cellStyle lipgloss.Style

		switch {
		case running && i == currentStep:
			cell = " ▶ "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(clockColor(i, steps)).
				Bold(true)
		case running && i < currentStep:
			cell = " █ "
			cellStyle = lipgloss.NewStyle().
				Foreground(clockColor(i, steps))
		default:
			cell = " · "
			cellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#444444"))
		}

		bar.WriteString(cellStyle.Render(cell))
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	if status == sequencer.Playing {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	}
	bar.WriteString(statusStyle.Render(" " + status.String()))

	return bar.String()
}
