package persist

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Backend is an opaque key/value store for encoded documents. Get must
// return an error tagged ftag.NotFound for missing keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

func notFound(key string) error {
	return fault.New("no document for key "+key,
		fmsg.WithDesc("read document", "No saved session named "+key+"."),
		ftag.With(ftag.NotFound))
}

// MemoryBackend keeps documents in memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, notFound(key)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// FileBackend keeps one <key>.json file per document in Dir.
type FileBackend struct {
	Dir string
}

func (f FileBackend) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fault.Wrap(err, ftag.With(ftag.Cancelled))
	}
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(key)
		}
		return nil, fault.Wrap(err, fmsg.With("read "+f.path(key)), ftag.With(ftag.Internal))
	}
	return data, nil
}

// Put writes through a temporary file so a crash never leaves a torn document.
func (f FileBackend) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fault.Wrap(err, ftag.With(ftag.Cancelled))
	}
	if err := os.MkdirAll(f.Dir, 0750); err != nil {
		return fault.Wrap(err, fmsg.With("create "+f.Dir), ftag.With(ftag.Internal))
	}

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return fault.Wrap(err, fmsg.With("create temp file"), ftag.With(ftag.Internal))
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fault.Wrap(err, fmsg.With("write "+tmp.Name()), ftag.With(ftag.Internal))
	}
	if err := tmp.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("close "+tmp.Name()), ftag.With(ftag.Internal))
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fault.Wrap(err, fmsg.With("replace "+f.path(key)), ftag.With(ftag.Internal))
	}
	return nil
}

// Keys lists the stored document keys, sorted.
func (f FileBackend) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fault.Wrap(err, fmsg.With("list "+f.Dir), ftag.With(ftag.Internal))
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}
