package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func()
		want    string
	}{
		{"debug verbose", true, func() { Debug("export %s", "C") }, "[DEBUG] export C\n"},
		{"debug quiet", false, func() { Debug("export %s", "C") }, ""},
		{"info verbose", true, func() { Info("%d pages", 3) }, "[INFO] 3 pages\n"},
		{"info quiet", false, func() { Info("%d pages", 3) }, ""},
		{"warn quiet", false, func() { Warn("stale %s", "state") }, "[WARN] stale state\n"},
		{"warn verbose", true, func() { Warn("stale %s", "state") }, "[WARN] stale state\n"},
		{"section verbose", true, func() { Section("Export") }, "\n=== Export ===\n"},
		{"section quiet", false, func() { Section("Export") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer reset()

			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(tt.verbose)

			tt.log()

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestConcurrentLogging(t *testing.T) {
	defer reset()

	var out lockedBuffer
	SetOutput(&out)
	SetVerbose(true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("worker %d", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(out.buf.String(), "[DEBUG]"); got != 10 {
		t.Errorf("expected 10 debug lines, got %d", got)
	}
}
