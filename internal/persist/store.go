package persist

import (
	"context"
	"os"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// keyPrefix namespaces session slots inside a shared backend.
const keyPrefix = "sequencer_"

// DefaultSlot is the slot sessions are autosaved to.
const DefaultSlot = "autosave"

// Store saves and loads named session slots.
type Store struct {
	backend Backend
}

func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

func slotKey(name string) string {
	if name == "" {
		name = DefaultSlot
	}
	return keyPrefix + name
}

// Save writes doc to the named slot.
func (s *Store) Save(ctx context.Context, name string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, slotKey(name), data)
}

// Load reads the named slot. The document is returned as stored; callers
// run Upgrade before applying it.
func (s *Store) Load(ctx context.Context, name string) (Document, error) {
	data, err := s.backend.Get(ctx, slotKey(name))
	if err != nil {
		return Document{}, err
	}
	return Decode(data)
}

// Slots lists saved slot names when the backend can enumerate keys.
func (s *Store) Slots() ([]string, error) {
	lister, ok := s.backend.(interface{ Keys() ([]string, error) })
	if !ok {
		return nil, nil
	}
	keys, err := lister.Keys()
	if err != nil {
		return nil, err
	}

	var slots []string
	for _, k := range keys {
		if name, ok := strings.CutPrefix(k, keyPrefix); ok {
			slots = append(slots, name)
		}
	}
	return slots, nil
}

// ExportFile writes doc as a standalone project file.
func ExportFile(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fault.Wrap(err, fmsg.With("write "+path), ftag.With(ftag.Internal))
	}
	return nil
}

// ImportFile reads a project file written by ExportFile or by an older
// version of the sequencer.
func ImportFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, fault.Wrap(err, fmsg.With("read "+path), ftag.With(ftag.NotFound))
		}
		return Document{}, fault.Wrap(err, fmsg.With("read "+path), ftag.With(ftag.Internal))
	}
	return Decode(data)
}
