package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/icco/drumseq/internal/audio"
	"github.com/icco/drumseq/internal/config"
	"github.com/icco/drumseq/internal/debug"
	"github.com/icco/drumseq/internal/midiout"
	"github.com/icco/drumseq/internal/persist"
	"github.com/icco/drumseq/internal/sequencer"
)

// session bundles a sequencer with its engine and storage.
type session struct {
	seq    *sequencer.Sequencer
	store  *persist.Store
	engine sequencer.Engine
	closer func()
}

func kitNames() []string {
	return midiout.KitNames()
}

// openEngine starts the configured playback engine.
func openEngine(c *config.Config) (sequencer.Engine, func(), error) {
	switch c.Output {
	case config.OutputMIDI:
		out, err := midiout.Open(c.MIDIPort, midiout.LookupKit(c.Kit), c.MIDIChannel)
		if err != nil {
			return nil, nil, err
		}
		return out, func() {
			out.AllNotesOff()
			_ = out.Close()
		}, nil
	default:
		synth, err := audio.NewSynth()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize audio: %w", err)
		}
		return synth, func() {
			synth.AllNotesOff()
			_ = synth.Close()
		}, nil
	}
}

func openStore(c *config.Config) (*persist.Store, error) {
	dir, err := c.SessionDir()
	if err != nil {
		return nil, err
	}
	return persist.NewStore(persist.FileBackend{Dir: dir}), nil
}

// openSession restores the autosave slot, or the demo beat when there is
// nothing to restore. With audible false the session runs without an
// engine, for commands that only edit or convert.
func openSession(ctx context.Context, audible bool) (*session, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{store: store, closer: func() {}}
	if audible {
		engine, closer, err := openEngine(cfg)
		if err != nil {
			return nil, err
		}
		s.engine = engine
		s.closer = closer
	}

	s.seq = sequencer.New(s.engine, cfg.Options())
	if cfg.Autosave == "" {
		s.seq.LoadDemo()
	} else if err := s.seq.Load(ctx, store, cfg.Autosave); err != nil {
		if !persist.IsNotFound(err) {
			fmt.Fprintf(os.Stderr, "Warning: could not restore %q: %v\n", cfg.Autosave, err)
		}
		s.seq.LoadDemo()
	}
	if bpmSet {
		s.seq.SetBPM(cfg.BPM)
	}
	debug.Log("app", "session open: autosave=%q bpm=%d", cfg.Autosave, s.seq.BPM())
	return s, nil
}

// save writes the session to the autosave slot.
func (s *session) save(ctx context.Context) error {
	if cfg.Autosave == "" {
		return nil
	}
	return s.seq.Save(ctx, s.store, cfg.Autosave)
}

// close stops playback, saves, and releases the engine.
func (s *session) close(ctx context.Context) {
	s.seq.Stop()
	if err := s.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving session: %v\n", err)
	}
	s.closer()
}
