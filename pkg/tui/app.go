package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/playgroundstudio/pgstudio/internal/logger"
	"github.com/playgroundstudio/pgstudio/pkg/book"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/generator"
	"github.com/playgroundstudio/pgstudio/pkg/models"
	"github.com/playgroundstudio/pgstudio/pkg/tree"
)

type sessionState int

const (
	browseView sessionState = iota
	renameView
	moveView
	promptView
)

const statusDuration = 3 * time.Second

// App is the sidebar/preview program. All tree mutation happens in Update,
// on the bubbletea goroutine; background work reports back through
// messages.
type App struct {
	editor   *tree.Editor
	settings *models.Settings
	session  *generator.Session
	program  *tea.Program

	state   sessionState
	cursor  int
	width   int
	height  int
	dirty   bool
	confirm *ConfirmationModel

	renameInput    textinput.Model
	renameID       models.ID
	renameKind     tree.RowKind
	renameOriginal string

	grabbed     models.ID
	dragPayload string

	promptInput textinput.Model
	spinner     spinner.Model
	generating  bool
	cancelGen   context.CancelFunc

	exporting bool
	preview   viewport.Model

	statusMsg string
	statusSeq int
}

// NewApp builds the program model around an already loaded editor. The
// session may be nil, in which case generation is disabled.
func NewApp(editor *tree.Editor, settings *models.Settings, session *generator.Session) *App {
	if settings == nil {
		settings = models.DefaultSettings()
	}

	rename := textinput.New()
	rename.Prompt = ""
	rename.CharLimit = 100

	prompt := textinput.New()
	prompt.Placeholder = "Describe the playground book to generate"
	prompt.Prompt = "› "
	prompt.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Dot

	a := &App{
		editor:      editor,
		settings:    settings,
		session:     session,
		confirm:     NewConfirmation(),
		renameInput: rename,
		promptInput: prompt,
		spinner:     s,
		preview:     viewport.New(80, 20),
	}
	a.syncCursor()
	a.refreshPreview()
	return a
}

// SetProgram hands the running program to the app so generator snapshots
// can be sent back while a generation is still streaming.
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

// Close stops any running generation, saves the project and tree state,
// and shuts the generator session down.
func (a *App) Close() error {
	if a.cancelGen != nil {
		a.cancelGen()
		a.cancelGen = nil
	}
	var errs []error
	if err := a.save(); err != nil {
		errs = append(errs, err)
	}
	if a.session != nil {
		if err := a.session.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("generator shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) Init() tea.Cmd {
	if a.session == nil {
		return nil
	}
	session := a.session
	return func() tea.Msg {
		if err := session.Prewarm(context.Background()); err != nil {
			return StatusMsg(fmt.Sprintf("Generator unavailable: %v", err))
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case StatusMsg:
		return a, a.setStatus(string(msg))

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
		}
		return a, nil

	case snapshotMsg:
		a.replace(msg.project)
		return a, nil

	case generateDoneMsg:
		return a, a.finishGenerate(msg)

	case exportDoneMsg:
		a.exporting = false
		if msg.err != nil {
			return a, a.setStatus(fmt.Sprintf("Export failed: %v", msg.err))
		}
		return a, a.setStatus(fmt.Sprintf("✓ Exported to %s", msg.root))

	case spinner.TickMsg:
		if !a.generating {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, a.quit()
		}
		if a.confirm.Active() {
			return a, a.confirm.Update(msg)
		}
		switch a.state {
		case renameView:
			return a, a.handleRenameKey(msg)
		case moveView:
			return a, a.handleMoveKey(msg)
		case promptView:
			return a, a.handlePromptKey(msg)
		default:
			return a, a.handleBrowseKey(msg)
		}
	}
	return a, nil
}

func (a *App) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return a.quit()
	case "up", "k":
		a.moveCursor(-1)
	case "down", "j":
		a.moveCursor(1)
	case "home":
		a.moveCursor(-len(a.rows()))
	case "end":
		a.moveCursor(len(a.rows()))
	case "enter", " ":
		if row, ok := a.selectedRow(); ok && row.Kind == tree.ChapterRow {
			a.editor.ToggleExpanded(row.ID)
			a.syncCursor()
		}
	case "right", "l":
		if row, ok := a.selectedRow(); ok && row.Kind == tree.ChapterRow && !row.Expanded {
			a.editor.ToggleExpanded(row.ID)
			a.syncCursor()
		}
	case "left", "h":
		a.collapseOrParent()
	case "c":
		ch := a.editor.AddChapter()
		a.dirty = true
		a.syncCursor()
		return a.setStatus(fmt.Sprintf("Added chapter '%s'", ch.Name))
	case "a", "n":
		m := a.editor.AddModule()
		a.editor.State().Select(m.ID)
		a.dirty = true
		a.syncCursor()
		return a.setStatus(fmt.Sprintf("Added module '%s'", m.Name))
	case "r", "f2":
		return a.startRename()
	case "m":
		return a.grab()
	case "d", "delete":
		return a.confirmDelete()
	case "s", "ctrl+s":
		if err := a.save(); err != nil {
			return a.setStatus(fmt.Sprintf("Save failed: %v", err))
		}
		return a.setStatus("✓ Saved")
	case "y":
		return a.copyPage()
	case "g":
		if a.generating {
			return a.setStatus("A generation is already running")
		}
		if a.session == nil {
			return a.setStatus("No generator configured")
		}
		a.state = promptView
		a.promptInput.SetValue("")
		return a.promptInput.Focus()
	case "x":
		if a.generating && a.cancelGen != nil {
			a.cancelGen()
			return a.setStatus("Cancelling generation...")
		}
	case "e":
		return a.startExport()
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	if a.cancelGen != nil {
		a.cancelGen()
	}
	return tea.Quit
}

func (a *App) copyPage() tea.Cmd {
	row, ok := a.selectedRow()
	if !ok || row.Kind != tree.ModuleRow {
		return a.setStatus("Select a module to copy")
	}
	m, ok := a.editor.Module(row.ID)
	if !ok {
		return nil
	}
	page := composer.ComposePage(*m)
	if err := clipboard.WriteAll(page); err != nil {
		return a.setStatus(fmt.Sprintf("Failed to copy: %v", err))
	}
	return a.setStatus(fmt.Sprintf("✓ Copied %s (%s)", m.Name, generator.FormatTokenCount(generator.EstimateTokens(page))))
}

func (a *App) confirmDelete() tea.Cmd {
	row, ok := a.selectedRow()
	if !ok {
		return nil
	}
	id, name := row.ID, row.Name
	message := fmt.Sprintf("Delete module '%s'?", name)
	if row.Kind == tree.ChapterRow {
		n := 0
		if ch, ok := a.editor.FindChapter(id); ok {
			n = len(ch.Modules)
		}
		message = fmt.Sprintf("Delete chapter '%s' and its %d module(s)?", name, n)
	}
	kind := row.Kind
	a.confirm.Show(message, true, func() tea.Cmd {
		if kind == tree.ChapterRow {
			a.editor.RemoveChapter(id)
		} else {
			a.editor.RemoveModule(id)
		}
		a.dirty = true
		a.syncCursor()
		return a.setStatus(fmt.Sprintf("Deleted '%s'", name))
	}, nil)
	return nil
}

// collapseOrParent collapses an expanded chapter, or jumps from a module to
// its chapter.
func (a *App) collapseOrParent() {
	row, ok := a.selectedRow()
	if !ok {
		return
	}
	if row.Kind == tree.ChapterRow {
		if row.Expanded {
			a.editor.ToggleExpanded(row.ID)
		}
	} else {
		a.editor.State().Select(a.editor.Project().Chapters[row.ChapterIndex].ID)
	}
	a.syncCursor()
}

func (a *App) save() error {
	p := a.editor.Project()
	if a.dirty {
		if err := files.WriteProject(p); err != nil {
			return err
		}
		a.dirty = false
	}
	return files.WriteTreeState(&files.TreeState{Expanded: a.editor.State().ExpandedIDs(p)})
}

// replace swaps in a generator snapshot and drops any gesture whose node
// is gone.
func (a *App) replace(p *models.Project) {
	if p == nil {
		return
	}
	a.editor.Replace(p)
	a.dirty = true

	st := a.editor.State()
	if a.state == renameView && !st.IsRenaming(a.renameID) {
		a.endRename()
	}
	if a.state == moveView {
		if _, _, ok := a.editor.FindModule(a.grabbed); !ok {
			a.endMove()
		}
	}
	a.syncCursor()
}

func (a *App) rows() []tree.Row {
	return tree.Rows(a.editor.Project(), a.editor.State())
}

func (a *App) selectedRow() (tree.Row, bool) {
	rows := a.rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return tree.Row{}, false
	}
	return rows[a.cursor], true
}

// syncCursor places the cursor on the selected node, or selects the row
// under the cursor when the selection vanished.
func (a *App) syncCursor() {
	rows := a.rows()
	st := a.editor.State()
	if len(rows) == 0 {
		a.cursor = 0
		st.ClearSelection()
		a.refreshPreview()
		return
	}
	if i := tree.IndexOf(rows, st.Selected); i >= 0 {
		a.cursor = i
	} else {
		a.cursor = max(0, min(a.cursor, len(rows)-1))
		st.Select(rows[a.cursor].ID)
	}
	a.refreshPreview()
}

func (a *App) moveCursor(delta int) {
	rows := a.rows()
	if len(rows) == 0 {
		return
	}
	a.cursor = max(0, min(a.cursor+delta, len(rows)-1))
	a.editor.State().Select(rows[a.cursor].ID)
	a.refreshPreview()
}

func (a *App) setStatus(text string) tea.Cmd {
	a.statusSeq++
	a.statusMsg = text
	seq := a.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (a *App) startExport() tea.Cmd {
	if a.exporting {
		return a.setStatus("An export is already running")
	}
	snapshot := a.editor.Snapshot()
	opts := book.ExportOptions{Parallelism: a.settings.Export.Parallelism}
	dir := a.settings.Export.OutputDir
	a.exporting = true

	return tea.Batch(a.setStatus("Exporting..."), exportCmd(dir, snapshot, opts))
}

func exportCmd(dir string, p *models.Project, opts book.ExportOptions) tea.Cmd {
	return func() tea.Msg {
		root, err := book.NewPackage(dir, p.Name)
		if err == nil {
			err = book.Export(context.Background(), root, p, opts)
		}
		return exportDoneMsg{root: root, err: err}
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	p := a.editor.Project()
	header := HeaderStyle.Render(fmt.Sprintf("%s  %d chapter(s), %d module(s)", p.Name, len(p.Chapters), p.ModuleCount()))
	if a.dirty {
		header += DescriptionStyle.Render("  (modified)")
	}
	if a.generating {
		header += "  " + a.spinner.View() + " generating"
	}

	sidebarWidth, previewWidth, bodyHeight := a.layout()
	sidebar := GetActiveBorderStyle(a.state != promptView).
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(a.renderSidebar(sidebarWidth, bodyHeight))

	body := sidebar
	if previewWidth > 0 {
		preview := InactiveBorderStyle.
			Width(previewWidth).
			Height(bodyHeight).
			Render(a.preview.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, preview)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, a.footer())

	if a.statusMsg != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, StatusBarStyle.Render(a.statusMsg))
	}
	return content
}

func (a *App) footer() string {
	if a.confirm.Active() {
		return a.confirm.View(a.width)
	}
	switch a.state {
	case promptView:
		input := a.promptInput.View()
		tokens := generator.EstimateTokens(a.promptInput.Value())
		badge := GetTokenBadgeStyle(tokens).Render(generator.FormatTokenCount(tokens))
		return InputStyle.Render(input) + " " + badge
	case renameView:
		return HelpStyle.Render("enter save • esc cancel")
	case moveView:
		return HelpStyle.Render("↑/↓ choose position • enter/m drop • esc cancel")
	}
	help := []string{"↑/↓ move", "enter expand", "c chapter", "a module", "r rename", "m move", "d delete", "g generate", "e export", "y copy", "s save", "q quit"}
	if a.generating {
		help = append(help, "x cancel")
	}
	return HelpStyle.Render(strings.Join(help, " • "))
}

// layout splits the window into sidebar and preview columns.
func (a *App) layout() (sidebarWidth, previewWidth, bodyHeight int) {
	bodyHeight = max(a.height-5, 3)
	if !a.settings.UI.ShowPreview || a.width < 60 {
		return max(a.width-2, 10), 0, bodyHeight
	}
	sidebarWidth = max(a.width/3, 24)
	previewWidth = a.width - sidebarWidth - 4
	return sidebarWidth, previewWidth, bodyHeight
}

func (a *App) resize() {
	_, previewWidth, bodyHeight := a.layout()
	a.preview.Width = previewWidth
	a.preview.Height = bodyHeight
	a.renameInput.Width = max(a.width/3-6, 10)
	a.promptInput.Width = max(a.width-20, 20)
	a.refreshPreview()
}

// StatusMsg shows a transient message in the status bar.
type StatusMsg string

type clearStatusMsg struct {
	seq int
}

type snapshotMsg struct {
	project *models.Project
}

type generateDoneMsg struct {
	project *models.Project
	err     error
}

type exportDoneMsg struct {
	root string
	err  error
}

// logged forwards a status line to the verbose log as well.
func logged(format string, args ...any) string {
	text := fmt.Sprintf(format, args...)
	logger.Debug("tui: %s", text)
	return text
}
