package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/icco/drumseq/internal/sequencer"
	"github.com/spf13/cobra"
)

var (
	playPreset  string
	playPattern int
	playSlot    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the saved session without a UI",
	Long: `Play the autosaved session, a named slot, or a preset until interrupted.

Example:
  drumseq play --preset techno --bpm 132
`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playPreset, "preset", "", "load a preset before playing")
	playCmd.Flags().IntVar(&playPattern, "pattern", 0, "pattern bank to play (1-based, 0 keeps the saved one)")
	playCmd.Flags().StringVar(&playSlot, "slot", "", "load a saved slot instead of the autosave")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.close(context.Background())

	if playSlot != "" {
		if err := s.seq.Load(ctx, s.store, playSlot); err != nil {
			return fmt.Errorf("load slot %q: %w", playSlot, err)
		}
	}
	if playPreset != "" && !s.seq.LoadPreset(playPreset) {
		return fmt.Errorf("unknown preset %q", playPreset)
	}
	if bpmSet {
		s.seq.SetBPM(cfg.BPM)
	}
	if playPattern > 0 {
		s.seq.SwitchPattern(playPattern - 1)
	}

	s.seq.SetObserver(sequencer.ObserverFuncs{
		Pattern: func(p int) { fmt.Printf("Pattern %c\n", 'A'+rune(p)) },
	})
	s.seq.Play()

	t := s.seq.Transport()
	fmt.Printf("Playing pattern %c at %d BPM. Ctrl+C to stop.\n", 'A'+rune(s.seq.CurrentPattern()), t.BPM)

	<-ctx.Done()
	fmt.Println("Stopped.")
	return nil
}
