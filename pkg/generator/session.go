package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/playgroundstudio/pgstudio/internal/logger"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// Session owns one Generator for the lifetime of the process and is reused
// across prompts. Run may be called from a background goroutine; the apply
// callback is where callers hand snapshots back to the goroutine that owns
// the tree.
type Session struct {
	gen Generator

	mu        sync.Mutex
	prewarmed bool
	closed    bool
	latest    *models.Project
}

func NewSession(g Generator) *Session {
	return &Session{gen: g}
}

// Prewarm forwards the hint to the generator once.
func (s *Session) Prewarm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.prewarmed {
		return nil
	}
	if err := s.gen.Prewarm(ctx); err != nil {
		return fmt.Errorf("prewarm failed: %w", err)
	}
	s.prewarmed = true
	return nil
}

// Run generates from input and calls apply with a private copy of every
// snapshot as it arrives, so each one can wholesale replace what is shown.
// It returns the final snapshot. When the stream fails or ctx is cancelled
// part way, snapshots already applied stay applied and the error is
// returned.
func (s *Session) Run(ctx context.Context, input models.PromptInput, apply func(*models.Project)) (*models.Project, error) {
	if input.IsEmpty() {
		return nil, ErrEmptyPrompt
	}
	if err := s.Prewarm(ctx); err != nil {
		return nil, err
	}

	prompt := input.FinalPrompt()
	logger.Debug("generating from prompt (%s)", FormatTokenCount(EstimateTokens(prompt)))

	var final *models.Project
	count := 0
	for snapshot, err := range s.gen.Generate(ctx, prompt) {
		if err != nil {
			return nil, fmt.Errorf("generation failed after %d snapshots: %w", count, err)
		}
		if snapshot == nil {
			continue
		}
		snapshot.EnsureIDs()
		count++
		final = snapshot.Clone()

		s.mu.Lock()
		s.latest = final
		s.mu.Unlock()

		if apply != nil {
			apply(snapshot.Clone())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if final == nil {
		return nil, ErrNoSnapshot
	}
	logger.Info("generation finished with %d snapshots, %d modules", count, final.ModuleCount())
	return final.Clone(), nil
}

// Latest returns a copy of the most recent snapshot, or nil.
func (s *Session) Latest() *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest.Clone()
}

// Shutdown releases the generator. Later calls fail with ErrClosed.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.gen.Close()
}
