package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/icco/drumseq/internal/audio"
	"github.com/icco/drumseq/internal/debug"
	"github.com/icco/drumseq/internal/midiout"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	deviceName string
)

var virtualCmd = &cobra.Command{
	Use:   "virtual",
	Short: "Create a virtual MIDI drum module",
	Long: `Create a virtual MIDI input device that plays the built-in drum synth.

The virtual device shows up as a MIDI output destination in other music software.
Incoming notes are mapped to drum voices through the --kit note map, so a DAW drum
track or a hardware sequencer can play drumseq's sounds.

Example:
  drumseq virtual --name "Drumseq" --kit tr8s
`,
	RunE: runVirtual,
}

func init() {
	virtualCmd.Flags().StringVarP(&deviceName, "name", "n", "Drumseq Virtual Drums", "Name for the virtual MIDI device")
	rootCmd.AddCommand(virtualCmd)
}

func runVirtual(cmd *cobra.Command, args []string) error {
	m := newVirtualModel(deviceName, midiout.LookupKit(cfg.Kit))
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.program = p // Store reference so MIDI callback can send messages

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	m.release()
	return nil
}

const maxMessageHistory = 20

// virtualModel represents the TUI state for the virtual drum module
type virtualModel struct {
	deviceName     string
	kit            midiout.Kit
	synth          *audio.Synth
	driver         *rtmididrv.Driver
	inPort         drivers.In
	stopFunc       func()
	hits           map[string]uint8 // instrument -> last velocity, until note off
	lastMessage    string
	messageHistory []string
	messageCount   int
	err            error
	width          int
	height         int
	program        *tea.Program // Reference to send messages from MIDI callback
}

// midiEventMsg is sent when a MIDI message is received
type midiEventMsg struct {
	msgType    string
	channel    uint8
	note       uint8
	velocity   uint8
	instrument string
	controller uint8 // for CC messages
	value      uint8 // for CC messages
}

type initResultMsg struct {
	synth  *audio.Synth
	driver *rtmididrv.Driver
	inPort drivers.In
	err    error
}

func newVirtualModel(name string, kit midiout.Kit) *virtualModel {
	return &virtualModel{
		deviceName:     name,
		kit:            kit,
		hits:           make(map[string]uint8),
		messageHistory: make([]string, 0, maxMessageHistory),
	}
}

func (m *virtualModel) Init() tea.Cmd {
	return m.initMIDI
}

func (m *virtualModel) initMIDI() tea.Msg {
	synth, err := audio.NewSynth()
	if err != nil {
		return initResultMsg{err: fmt.Errorf("failed to initialize audio: %w", err)}
	}
	synth.Init()

	driver, err := rtmididrv.New()
	if err != nil {
		_ = synth.Close()
		return initResultMsg{err: fmt.Errorf("failed to initialize MIDI driver: %w", err)}
	}

	// A single virtual input receives all channels
	port, err := driver.OpenVirtualIn(m.deviceName)
	if err != nil {
		driver.Close()
		_ = synth.Close()
		return initResultMsg{err: fmt.Errorf("failed to create virtual MIDI port: %w", err)}
	}

	return initResultMsg{
		synth:  synth,
		driver: driver,
		inPort: port,
	}
}

// instrumentFor maps an incoming note to a drum voice.
func (m *virtualModel) instrumentFor(note uint8) string {
	if id, ok := m.kit.Instrument(note); ok {
		return id
	}
	return "perc"
}

func (m *virtualModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case initResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.synth = msg.synth
		m.driver = msg.driver
		m.inPort = msg.inPort

		return m, m.listenMIDI

	case midiEventMsg:
		m.handleMIDIEvent(msg)
		m.messageCount++
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleRaw decodes one incoming message, plays it, and returns the event
// for the UI. ok is false for messages the module ignores.
func (m *virtualModel) handleRaw(data []byte) (ev midiEventMsg, ok bool) {
	if len(data) < 1 {
		return ev, false
	}

	status := data[0]
	ev.channel = status & 0x0F

	switch status & 0xF0 {
	case 0x90: // Note On
		if len(data) < 3 {
			return ev, false
		}
		ev.msgType = "noteOn"
		ev.note, ev.velocity = data[1], data[2]
		ev.instrument = m.instrumentFor(ev.note)
		if ev.velocity > 0 && m.synth != nil {
			m.synth.Trigger(ev.instrument, float64(ev.velocity)/127)
		}
	case 0x80: // Note Off
		if len(data) < 3 {
			return ev, false
		}
		ev.msgType = "noteOff"
		ev.note = data[1]
		ev.instrument = m.instrumentFor(ev.note)
	case 0xB0: // Control Change
		if len(data) < 3 {
			return ev, false
		}
		ev.msgType = "cc"
		ev.controller, ev.value = data[1], data[2]
		switch ev.controller {
		case 123: // All notes off
			if m.synth != nil {
				m.synth.AllNotesOff()
			}
		case 7: // Channel volume sets the master level
			if m.synth != nil {
				m.synth.SetVolume(float64(ev.value) / 127)
			}
		}
	default:
		return ev, false
	}
	return ev, true
}

func (m *virtualModel) listenMIDI() tea.Msg {
	if m.inPort == nil {
		return nil
	}

	stop, err := m.inPort.Listen(func(data []byte, timestamp int32) {
		ev, ok := m.handleRaw(data)
		if !ok {
			return
		}
		debug.Log("midi", "in %s ch%d note=%d vel=%d", ev.msgType, ev.channel+1, ev.note, ev.velocity)
		if m.program != nil {
			m.program.Send(ev)
		}
	}, drivers.ListenConfig{})

	if err != nil {
		m.err = fmt.Errorf("failed to listen to MIDI port: %w", err)
		return nil
	}

	m.stopFunc = stop
	m.lastMessage = fmt.Sprintf("Listening on: %s", m.inPort.String())
	return nil
}

func (m *virtualModel) handleMIDIEvent(msg midiEventMsg) {
	var message string

	switch msg.msgType {
	case "noteOn":
		if msg.velocity > 0 {
			m.hits[msg.instrument] = msg.velocity
			message = fmt.Sprintf("Hit:      Ch%d %-4s %-8s vel:%d",
				msg.channel+1, midiNoteName(msg.note), msg.instrument, msg.velocity)
		} else {
			delete(m.hits, msg.instrument)
		}
	case "noteOff":
		delete(m.hits, msg.instrument)
	case "cc":
		message = fmt.Sprintf("CC:       Ch%d ctrl:%d val:%d",
			msg.channel+1, msg.controller, msg.value)
		if msg.controller == 123 {
			m.hits = make(map[string]uint8)
		}
	}

	if message == "" {
		return
	}
	m.lastMessage = message

	// Most recent at top
	m.messageHistory = append([]string{message}, m.messageHistory...)
	if len(m.messageHistory) > maxMessageHistory {
		m.messageHistory = m.messageHistory[:maxMessageHistory]
	}
}

// release stops the listener and frees the port, driver and synth.
func (m *virtualModel) release() {
	if m.stopFunc != nil {
		m.stopFunc()
	}
	if m.inPort != nil {
		_ = m.inPort.Close()
	}
	if m.driver != nil {
		m.driver.Close()
	}
	if m.synth != nil {
		m.synth.AllNotesOff()
		_ = m.synth.Close()
	}
}

func (m *virtualModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00")).
		Bold(true)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000")).
		Bold(true)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262"))

	b.WriteString(titleStyle.Render("DRUMSEQ Virtual Drum Module") + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
		b.WriteString(helpStyle.Render("Press q to quit"))
		return b.String()
	}

	b.WriteString(subtitleStyle.Render("Device Name: ") + m.deviceName + "\n")
	b.WriteString(subtitleStyle.Render("Kit: ") + m.kit.Name + "\n")

	if m.inPort != nil {
		b.WriteString(subtitleStyle.Render("MIDI Port: ") + statusStyle.Render(m.inPort.String()) + "\n\n")
		b.WriteString(statusStyle.Render("● Listening for MIDI") + "\n\n")
	} else {
		b.WriteString(subtitleStyle.Render("MIDI Port: ") + "Initializing...\n\n")
	}

	b.WriteString(renderPads(m.hits, m.kit) + "\n")

	b.WriteString("\n" + subtitleStyle.Render(fmt.Sprintf("Message Log: [%d total]", m.messageCount)) + "\n")

	logStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	logHighlightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))

	if len(m.messageHistory) == 0 {
		b.WriteString("  " + logStyle.Render("(waiting for input)") + "\n")
	} else {
		for i, msg := range m.messageHistory[:min(len(m.messageHistory), 10)] {
			if i == 0 {
				b.WriteString("  " + logHighlightStyle.Render("▶ "+msg) + "\n")
			} else {
				b.WriteString("  " + logStyle.Render("  "+msg) + "\n")
			}
		}
	}

	b.WriteString("\n" + helpStyle.Render("q/Ctrl+C: quit"))

	return b.String()
}

// renderPads draws one pad per drum voice, lit while a hit is held.
func renderPads(hits map[string]uint8, kit midiout.Kit) string {
	idle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Background(lipgloss.Color("#222222")).
		Padding(0, 1)
	lit := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color("#00FF00")).
		Bold(true).
		Padding(0, 1)

	var rows []string
	var row []string
	for i, id := range audio.Instruments() {
		label := fmt.Sprintf("%-7s %-4s", id, midiNoteName(kit.Note(id)))
		if _, on := hits[id]; on {
			row = append(row, lit.Render(label))
		} else {
			row = append(row, idle.Render(label))
		}
		if (i+1)%4 == 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func midiNoteName(note uint8) string {
	notes := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(note/12) - 1
	noteName := notes[note%12]
	return fmt.Sprintf("%s%d", noteName, octave)
}
