//go:build unix

package book

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExtractorTimeoutKillsWrappedProcesses(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	pidFile := filepath.Join(t.TempDir(), "child.pid")

	x := CommandExtractor{
		Path:    sh,
		Args:    []string{"-c", `sleep 30 & echo $! > "$0"; wait`, pidFile},
		Timeout: 300 * time.Millisecond,
	}
	start := time.Now()
	err = x.Extract(context.Background(), "unused.zip", t.TempDir())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsKind(err, ExtractionFailed))
	assert.ErrorIs(t, err, ErrExtractionTimeout)
	assert.Less(t, elapsed, killWaitDelay, "the error is returned at the deadline")

	pid, err := strconv.Atoi(strings.TrimSpace(readFile(t, pidFile)))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return !processAlive(pid)
	}, 2*time.Second, 20*time.Millisecond, "background child %d is still running", pid)
}

// processAlive reports whether pid exists and is not a zombie waiting to be
// reaped.
func processAlive(pid int) bool {
	if syscall.Kill(pid, 0) != nil {
		return false
	}
	stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return true
	}
	fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
	return len(fields) == 0 || fields[0] != "Z"
}
