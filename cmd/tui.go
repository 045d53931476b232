package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/icco/drumseq/internal/api"
	"github.com/icco/drumseq/internal/sequencer"
	"github.com/icco/drumseq/internal/tui"
	"github.com/spf13/cobra"
)

var tuiListen string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit and play patterns in the terminal",
	Long: `Start the interactive step sequencer grid.

The session is restored from the autosave slot and saved back to it on quit.
With --listen the HTTP API runs alongside the terminal UI.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiListen, "listen", "", "also serve the HTTP API on this address")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.close(context.Background())

	m := tui.New(s.seq, s.store, cfg.Autosave)
	observers := sequencer.Observers{m.Observer()}

	if tuiListen != "" {
		srv := api.NewServer(s.seq, s.store, cfg.Autosave)
		observers = append(observers, srv.Events())
		go func() {
			if err := srv.Serve(ctx, tuiListen); err != nil {
				fmt.Fprintf(os.Stderr, "API server: %v\n", err)
			}
		}()
	}
	s.seq.SetObserver(observers)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
