package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

func (a *App) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.promptInput.Blur()
		a.state = browseView
		return nil
	case "enter":
		text := strings.TrimSpace(a.promptInput.Value())
		if text == "" {
			return a.setStatus("Prompt is empty")
		}
		a.promptInput.Blur()
		a.state = browseView
		return a.startGenerate(models.PromptInput{GeneralPrompt: text})
	}

	var cmd tea.Cmd
	a.promptInput, cmd = a.promptInput.Update(msg)
	return cmd
}

// startGenerate archives the current project when it has content, then
// runs the session in the background. Each snapshot is sent to the program
// as it arrives and replaces the whole tree.
func (a *App) startGenerate(input models.PromptInput) tea.Cmd {
	var cmds []tea.Cmd
	if p := a.editor.Project(); len(p.Chapters) > 0 {
		path, err := files.ArchiveProject(a.editor.Snapshot(), time.Now())
		if err != nil {
			return a.setStatus(fmt.Sprintf("Failed to archive current project: %v", err))
		}
		cmds = append(cmds, a.setStatus(logged("Archived current project to %s", path)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelGen = cancel
	a.generating = true

	cmds = append(cmds, a.spinner.Tick, a.generateCmd(ctx, input))
	return tea.Batch(cmds...)
}

// generateCmd runs the session off the UI goroutine. Without a program the
// intermediate snapshots are dropped and only the final one is delivered.
func (a *App) generateCmd(ctx context.Context, input models.PromptInput) tea.Cmd {
	session, program := a.session, a.program
	return func() tea.Msg {
		final, err := session.Run(ctx, input, func(p *models.Project) {
			if program != nil {
				program.Send(snapshotMsg{project: p})
			}
		})
		return generateDoneMsg{project: final, err: err}
	}
}

func (a *App) finishGenerate(msg generateDoneMsg) tea.Cmd {
	a.generating = false
	if a.cancelGen != nil {
		a.cancelGen()
		a.cancelGen = nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return a.setStatus("Generation cancelled")
		}
		return a.setStatus(logged("Generation failed: %v", msg.err))
	}
	if msg.project != nil {
		a.replace(msg.project)
	}
	p := a.editor.Project()
	return a.setStatus(logged("✓ Generated %d chapter(s), %d module(s)", len(p.Chapters), p.ModuleCount()))
}
