// Package debug writes categorized diagnostic lines to a file. Logging is a
// no-op until Enable is called, so hot paths can log unconditionally.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	out     io.Writer
	closer  io.Closer
	mu      sync.Mutex
	enabled bool
	now     = time.Now
)

// DefaultPath returns ~/.config/drumseq/debug.log.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".config", "drumseq", "debug.log"), nil
}

// Enable starts logging to path, truncating it. An empty path means DefaultPath.
func Enable(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path comes from the user's own flag
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}

	EnableWriter(f)
	mu.Lock()
	closer = f
	mu.Unlock()
	return nil
}

// EnableWriter starts logging to w. Any previously opened log file is closed.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	out = w
	enabled = true
	write("debug", "=== debug logging started ===")
}

// Disable stops logging and closes the log file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	out = nil
	enabled = false
}

// Enabled reports whether Log writes anywhere.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes one line under category.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// caller holds mu
func write(category, msg string) {
	ts := now().Format("15:04:05.000")
	_, _ = fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if f, ok := out.(*os.File); ok {
		_ = f.Sync()
	}
}

var counters = make(map[string]int)

// LogEvery logs only every nth call for a category and format. Use it for
// per-pass scheduler chatter.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	if !enabled {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
