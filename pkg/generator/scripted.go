package generator

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// ScriptedGenerator replays a fixed project as if it were being written:
// first the bare project, then one more module per snapshot. It is the
// offline default and what tests drive.
type ScriptedGenerator struct {
	Project *models.Project
	// Delay is the pause between snapshots.
	Delay time.Duration

	closed atomic.Bool
}

// NewScriptedGenerator replays p, or the sample project when p is nil.
func NewScriptedGenerator(p *models.Project, delay time.Duration) *ScriptedGenerator {
	if p == nil {
		p = models.SampleProject()
	}
	return &ScriptedGenerator{Project: p, Delay: delay}
}

func (g *ScriptedGenerator) Prewarm(context.Context) error {
	if g.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) iter.Seq2[*models.Project, error] {
	target := g.Project.Clone()
	return singleUse(func(yield func(*models.Project, error) bool) {
		if g.closed.Load() {
			yield(nil, ErrClosed)
			return
		}
		for _, snapshot := range Progression(target) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(snapshot, nil) {
				return
			}
			if g.Delay > 0 {
				select {
				case <-ctx.Done():
					yield(nil, ctx.Err())
					return
				case <-time.After(g.Delay):
				}
			}
		}
	})
}

func (g *ScriptedGenerator) Close() error {
	g.closed.Store(true)
	return nil
}

// Progression returns the snapshots that build up p: the project with
// empty chapters first, then one module added per snapshot. The last
// snapshot equals p.
func Progression(p *models.Project) []*models.Project {
	partial := p.Clone()
	for i := range partial.Chapters {
		partial.Chapters[i].Modules = []models.Module{}
	}

	steps := []*models.Project{partial.Clone()}
	for ci, ch := range p.Chapters {
		for _, m := range ch.Modules {
			partial.Chapters[ci].Modules = append(partial.Chapters[ci].Modules, m.Clone())
			steps = append(steps, partial.Clone())
		}
	}
	return steps
}
