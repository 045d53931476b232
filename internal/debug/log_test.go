package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	Log("sched", "should not panic %d", 1)
	if Enabled() {
		t.Fatal("expected logging disabled")
	}
}

func TestLogWriter(t *testing.T) {
	now = func() time.Time { return time.Date(2024, 1, 1, 12, 30, 15, 0, time.UTC) }
	t.Cleanup(func() {
		Disable()
		now = time.Now
	})

	var buf bytes.Buffer
	EnableWriter(&buf)
	Log("transport", "play from step %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	want := "[12:30:15.000] transport  play from step 3"
	if lines[1] != want {
		t.Errorf("line = %q, want %q", lines[1], want)
	}
}

func TestLogEvery(t *testing.T) {
	t.Cleanup(Disable)

	var buf bytes.Buffer
	EnableWriter(&buf)
	for range 9 {
		LogEvery(3, "sched", "pass")
	}
	if got := strings.Count(buf.String(), "sched"); got != 3 {
		t.Errorf("logged %d times, want 3", got)
	}
}

func TestEnableFile(t *testing.T) {
	t.Cleanup(Disable)

	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("persist", "saved")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "persist") {
		t.Errorf("log missing entry: %q", data)
	}
}
