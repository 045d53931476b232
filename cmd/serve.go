package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/icco/drumseq/internal/api"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	servePlay   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Control the sequencer over HTTP",
	Long: `Serve a REST API for editing and playing the session.

Every change is autosaved. Step, pattern and instrument changes stream from
/api/v1/events as server-sent events. API docs live under /swagger/.

Example:
  drumseq serve --listen :8080 --play
`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&servePlay, "play", false, "start playing immediately")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.close(context.Background())

	addr := cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	srv := api.NewServer(s.seq, s.store, cfg.Autosave)
	s.seq.SetObserver(srv.Events())
	if servePlay {
		s.seq.Play()
	}

	fmt.Printf("Listening on %s\n", addr)
	return srv.Serve(ctx, addr)
}
