package cmd

import (
	"fmt"
	"os"

	"github.com/icco/drumseq/internal/config"
	"github.com/icco/drumseq/internal/debug"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	debugLog   bool
	storageDir string
	outputName string
	midiPort   string
	kitName    string
	bpmFlag    int
	bpmSet     bool

	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "drumseq",
	Short: "A terminal drum machine and step sequencer",
	Long: `drumseq is a step sequencer for drum patterns with a lookahead scheduler.

It plays four banks of eight tracks by sixteen steps through a built-in drum synth or
a MIDI output port, and can be driven from a terminal UI, an HTTP API, or headless.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/drumseq/config.json)")
	flags.BoolVar(&debugLog, "debug", false, "write a debug log to ~/.config/drumseq/debug.log")
	flags.StringVar(&storageDir, "storage", "", "directory for saved sessions")
	flags.StringVarP(&outputName, "output", "o", "", "playback engine: synth or midi")
	flags.StringVar(&midiPort, "midi-port", "", "MIDI output port name (default first port)")
	flags.StringVar(&kitName, "kit", "", "MIDI drum kit note map: "+fmt.Sprint(kitNames()))
	flags.IntVarP(&bpmFlag, "bpm", "b", 0, "tempo in beats per minute")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("storage") {
		c.StorageDir = storageDir
	}
	if flags.Changed("output") {
		c.Output = config.Output(outputName)
	}
	if flags.Changed("midi-port") {
		c.MIDIPort = midiPort
	}
	if flags.Changed("kit") {
		c.Kit = kitName
	}
	bpmSet = flags.Changed("bpm")
	if bpmSet {
		c.BPM = bpmFlag
	}

	switch c.Output {
	case config.OutputSynth, config.OutputMIDI:
	default:
		return fmt.Errorf("unknown output %q (want synth or midi)", c.Output)
	}

	if debugLog {
		if err := debug.Enable(""); err != nil {
			return err
		}
		debug.Log("app", "config loaded: output=%s bpm=%d kit=%s", c.Output, c.BPM, c.Kit)
	}

	cfg = c
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	debug.Disable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
