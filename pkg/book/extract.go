package book

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

const (
	DefaultExtractionTimeout = 60 * time.Second
	DefaultUnzipPath         = "/usr/bin/unzip"

	// Grace period between killing the extractor and giving up on its
	// output pipes.
	killWaitDelay = 2 * time.Second
)

// Extractor unpacks an archive into a destination directory.
type Extractor interface {
	Extract(ctx context.Context, archive, dest string) error
}

// CommandExtractor runs an external unzip tool. Args may contain the
// placeholders {archive} and {dest}; when empty the unzip defaults
// "-oq {archive} -d {dest}" are used. The child never sees a terminal: its
// stdin is the null device, so overwrite prompts cannot block it.
type CommandExtractor struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

func (x CommandExtractor) Extract(ctx context.Context, archive, dest string) error {
	path := x.Path
	if path == "" {
		path = DefaultUnzipPath
	}
	args := x.Args
	if len(args) == 0 {
		args = []string{"-oq", "{archive}", "-d", "{dest}"}
	}
	timeout := x.Timeout
	if timeout <= 0 {
		timeout = DefaultExtractionTimeout
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return extractionFailed(dest, err)
	}

	runCtx, cancel := context.WithTimeoutCause(ctx, timeout,
		fmt.Errorf("%w after %s", ErrExtractionTimeout, timeout))
	defer cancel()

	expanded := make([]string, len(args))
	r := strings.NewReplacer("{archive}", archive, "{dest}", dest)
	for i, a := range args {
		expanded[i] = r.Replace(a)
	}

	cmd := exec.CommandContext(runCtx, path, expanded...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = killWaitDelay
	killProcessGroup(cmd)

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if cause := context.Cause(runCtx); cause != nil {
		return extractionFailed(archive, withOutput(cause, &output))
	}
	return extractionFailed(archive, withOutput(err, &output))
}

func withOutput(err error, output *bytes.Buffer) error {
	msg := strings.TrimSpace(output.String())
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}

// ZipExtractor unpacks the archive in-process. Entries that would land
// outside dest, absolute paths, and symlinks are rejected.
type ZipExtractor struct{}

func (ZipExtractor) Extract(ctx context.Context, archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return extractionFailed(archive, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return extractionFailed(dest, err)
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return extractionFailed(archive, err)
		}
		if err := extractEntry(f, dest); err != nil {
			return extractionFailed(archive, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) error {
	name := filepath.FromSlash(strings.TrimSuffix(f.Name, "/"))
	if name == "" || !filepath.IsLocal(name) {
		return fmt.Errorf("illegal entry path %q", f.Name)
	}
	target := filepath.Join(dest, name)
	mode := f.Mode()

	switch {
	case mode&os.ModeSymlink != 0:
		return fmt.Errorf("symlink entries are not supported: %q", f.Name)
	case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm()|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", f.Name, err)
	}
	return out.Close()
}

// NewExtractor builds the extractor named by kind: "command" (the default)
// or "zip".
func NewExtractor(kind, unzipPath string, timeout time.Duration) (Extractor, error) {
	switch kind {
	case "", "command":
		return CommandExtractor{Path: unzipPath, Timeout: timeout}, nil
	case "zip":
		return ZipExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want command or zip)", kind)
	}
}

// waitVisible polls dir until it holds at least one non-hidden entry.
func waitVisible(ctx context.Context, dir string, attempts int, interval time.Duration) error {
	for i := 0; i < attempts; i++ {
		if hasVisibleEntries(dir) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	if hasVisibleEntries(dir) {
		return nil
	}
	return errors.New("extracted contents never became visible")
}

func hasVisibleEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !isHidden(e.Name()) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
