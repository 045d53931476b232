package sequencer

import (
	"context"

	"github.com/icco/drumseq/internal/debug"
	"github.com/icco/drumseq/internal/persist"
)

// Shape describes this session's dimensions for document upgrades.
func (s *Sequencer) Shape() persist.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shapeLocked()
}

func (s *Sequencer) shapeLocked() persist.Shape {
	shape := persist.Shape{
		Patterns: s.bank.Patterns(),
		Tracks:   s.bank.Tracks(),
		Steps:    s.bank.Steps(),
	}
	for t := 0; t < shape.Tracks; t++ {
		id, name := defaultInstrument(t)
		shape.Instruments = append(shape.Instruments, id)
		shape.Names = append(shape.Names, name)
	}
	return shape
}

// Snapshot captures the patterns, tempo and track controls. Transport
// position is not part of it.
func (s *Sequencer) Snapshot() persist.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := persist.Document{
		BPM:            s.bpm,
		CurrentPattern: s.bank.Current(),
	}
	for p := 0; p < s.bank.Patterns(); p++ {
		doc.Patterns = append(doc.Patterns, s.bank.Grid(p))
	}
	for _, c := range s.bank.Controls() {
		doc.TrackVolumes = append(doc.TrackVolumes, c.Volume)
		doc.TrackMuted = append(doc.TrackMuted, c.Muted)
		doc.TrackSolo = append(doc.TrackSolo, c.Solo)
		doc.TrackInstruments = append(doc.TrackInstruments, c.Instrument)
		doc.TrackNames = append(doc.TrackNames, c.Name)
	}
	return doc
}

// Restore replaces patterns, tempo and track controls with doc, upgrading
// it to this session's shape first, and notifies PatternChanged.
func (s *Sequencer) Restore(doc persist.Document) {
	s.mu.Lock()
	doc = doc.Upgrade(s.shapeLocked())

	for p, g := range doc.Patterns {
		for track, row := range g {
			s.bank.SetRow(p, track, row)
		}
	}
	for track := 0; track < s.bank.Tracks(); track++ {
		s.bank.UpdateControl(track, func(c *TrackControl) {
			*c = TrackControl{
				Instrument: doc.TrackInstruments[track],
				Name:       doc.TrackNames[track],
				Volume:     doc.TrackVolumes[track],
				Muted:      doc.TrackMuted[track],
				Solo:       doc.TrackSolo[track],
			}
		})
	}
	s.bpm = clampBPM(doc.BPM)
	s.bank.Switch(doc.CurrentPattern)
	current := s.bank.Current()
	o := s.obs()
	s.mu.Unlock()

	o.PatternChanged(current)
}

// Save writes a snapshot to a named slot of store.
func (s *Sequencer) Save(ctx context.Context, store *persist.Store, name string) error {
	if err := store.Save(ctx, name, s.Snapshot()); err != nil {
		debug.Log("persist", "save %q failed: %v", name, err)
		return err
	}
	debug.Log("persist", "saved %q", name)
	return nil
}

// Load restores a named slot of store. On any error the session is left
// exactly as it was.
func (s *Sequencer) Load(ctx context.Context, store *persist.Store, name string) error {
	doc, err := store.Load(ctx, name)
	if err != nil {
		debug.Log("persist", "load %q failed: %v", name, err)
		return err
	}
	s.Restore(doc)
	debug.Log("persist", "loaded %q", name)
	return nil
}
