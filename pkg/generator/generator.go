// Package generator defines the content generator collaborator: something
// that turns a prompt into a lazily produced sequence of progressively more
// complete project snapshots.
//
// Generators are long-lived and expensive to start, so they are owned
// explicitly by a Session with a Prewarm/Shutdown lifecycle rather than
// held in package state.
package generator

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

var (
	// ErrStreamConsumed is yielded when a Generate sequence is ranged over
	// a second time. Sequences are not restartable.
	ErrStreamConsumed = errors.New("generation stream already consumed")
	// ErrClosed is returned once a generator or session has been shut down.
	ErrClosed = errors.New("generator is closed")
	// ErrNoSnapshot means a generation finished without producing anything.
	ErrNoSnapshot = errors.New("generation produced no snapshot")
	// ErrEmptyPrompt means there was nothing to generate from.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Generator produces project snapshots for a prompt.
type Generator interface {
	// Prewarm is a hint to load whatever the generator needs up front.
	Prewarm(ctx context.Context) error
	// Generate returns a finite, single-use sequence of snapshots. Each
	// snapshot is a complete tree that supersedes the previous one; the
	// last is the final result. A failure is yielded as the final element.
	Generate(ctx context.Context, prompt string) iter.Seq2[*models.Project, error]
	Close() error
}

// singleUse makes seq yield ErrStreamConsumed on every iteration after the
// first.
func singleUse(seq iter.Seq2[*models.Project, error]) iter.Seq2[*models.Project, error] {
	var used atomic.Bool
	return func(yield func(*models.Project, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrStreamConsumed)
			return
		}
		seq(yield)
	}
}
