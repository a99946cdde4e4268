package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// CommandGenerator runs an external program per prompt. The prompt is
// written to its stdin; it writes one JSON project snapshot per line
// (NDJSON) to stdout, each superseding the previous, and exits zero when
// done.
type CommandGenerator struct {
	Path string
	Args []string

	closed atomic.Bool
}

func NewCommandGenerator(path string, args ...string) *CommandGenerator {
	return &CommandGenerator{Path: path, Args: args}
}

// Prewarm checks that the program can be found.
func (g *CommandGenerator) Prewarm(context.Context) error {
	if g.closed.Load() {
		return ErrClosed
	}
	if _, err := exec.LookPath(g.Path); err != nil {
		return fmt.Errorf("generator command %q: %w", g.Path, err)
	}
	return nil
}

func (g *CommandGenerator) Generate(ctx context.Context, prompt string) iter.Seq2[*models.Project, error] {
	return singleUse(func(yield func(*models.Project, error) bool) {
		if g.closed.Load() {
			yield(nil, ErrClosed)
			return
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		cmd := exec.CommandContext(runCtx, g.Path, g.Args...)
		cmd.Stdin = strings.NewReader(prompt)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		cmd.WaitDelay = 2 * time.Second
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield(nil, err)
			return
		}
		if err := cmd.Start(); err != nil {
			yield(nil, fmt.Errorf("failed to start generator: %w", err))
			return
		}

		dec := json.NewDecoder(stdout)
		for {
			var p models.Project
			err := dec.Decode(&p)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				cancel()
				cmd.Wait()
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
				} else {
					err = fmt.Errorf("invalid snapshot from generator: %w", err)
				}
				yield(nil, err)
				return
			}
			if !yield(&p, nil) {
				cancel()
				cmd.Wait()
				return
			}
		}

		if err := cmd.Wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(nil, ctxErr)
				return
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				err = fmt.Errorf("%w: %s", err, msg)
			}
			yield(nil, fmt.Errorf("generator exited: %w", err))
		}
	})
}

func (g *CommandGenerator) Close() error {
	g.closed.Store(true)
	return nil
}

// New picks the generator described by settings: the configured command,
// or the scripted sample generator when none is set.
func New(s models.GeneratorSettings) Generator {
	if s.Command == "" {
		return NewScriptedGenerator(nil, 150*time.Millisecond)
	}
	return NewCommandGenerator(s.Command, s.Args...)
}
