package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/icco/drumseq/internal/midiout"
	"github.com/icco/drumseq/internal/persist"
	"github.com/icco/drumseq/internal/sequencer"
	"github.com/spf13/cobra"
)

var fileSlot string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the session to a MIDI or JSON file",
	Long: `Export the saved session.

A .json file gets the whole project: every pattern bank and the track settings.
Any other name gets a Standard MIDI File of the current pattern, one track per
sequencer track, with notes from the --kit note map.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a MIDI or JSON file into the session",
	Long: `Import a file into the saved session.

A .json project replaces the whole session. A Standard MIDI File replaces the
current pattern; notes are assigned to tracks through the --kit note map.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVar(&fileSlot, "slot", "", "saved slot to use instead of the autosave")
		rootCmd.AddCommand(c)
	}
}

func isProject(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// openFileSession opens a silent session on the chosen slot.
func openFileSession(ctx context.Context) (*session, string, error) {
	s, err := openSession(ctx, false)
	if err != nil {
		return nil, "", err
	}
	slot := cfg.Autosave
	if fileSlot != "" {
		slot = fileSlot
		if err := s.seq.Load(ctx, s.store, slot); err != nil {
			return nil, "", fmt.Errorf("load slot %q: %w", slot, err)
		}
	}
	return s, slot, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	s, _, err := openFileSession(ctx)
	if err != nil {
		return err
	}

	if isProject(path) {
		if err := persist.ExportFile(path, s.seq.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("Exported project to %s\n", path)
		return nil
	}

	if err := midiout.Export(path, currentPattern(s.seq), midiout.LookupKit(cfg.Kit), cfg.MIDIChannel); err != nil {
		return err
	}
	fmt.Printf("Exported pattern %c to %s\n", 'A'+rune(s.seq.CurrentPattern()), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	s, slot, err := openFileSession(ctx)
	if err != nil {
		return err
	}

	if isProject(path) {
		doc, err := persist.ImportFile(path)
		if err != nil {
			return err
		}
		s.seq.Restore(doc)
	} else {
		tracks := s.seq.Tracks()
		instruments := make([]string, len(tracks))
		for i, c := range tracks {
			instruments[i] = c.Instrument
		}
		p, err := midiout.Import(path, midiout.LookupKit(cfg.Kit), instruments, s.seq.Options().Steps)
		if err != nil {
			return err
		}
		applyPattern(s.seq, p)
	}

	if slot == "" {
		return fmt.Errorf("no slot to save to (autosave is disabled)")
	}
	if err := s.seq.Save(ctx, s.store, slot); err != nil {
		return err
	}
	fmt.Printf("Imported %s into %q\n", path, slot)
	return nil
}

// currentPattern converts the current bank for SMF export.
func currentPattern(seq *sequencer.Sequencer) midiout.Pattern {
	tracks := seq.Tracks()
	p := midiout.Pattern{
		BPM:         seq.BPM(),
		Instruments: make([]string, len(tracks)),
		Volumes:     make([]float64, len(tracks)),
		Grid:        seq.Pattern(seq.CurrentPattern()),
	}
	for i, c := range tracks {
		p.Instruments[i] = c.Instrument
		p.Volumes[i] = c.Volume
	}
	return p
}

// applyPattern replaces the current bank with an imported one.
func applyPattern(seq *sequencer.Sequencer, p midiout.Pattern) {
	seq.ClearPattern()
	for t, row := range p.Grid {
		for step, on := range row {
			if on {
				seq.SetStep(t, step, true)
			}
		}
	}
	seq.SetBPM(p.BPM)
}
