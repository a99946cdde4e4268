package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/playgroundstudio/pgstudio/pkg/book"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
	"github.com/playgroundstudio/pgstudio/pkg/tree"
)

// startRename puts the selected row into inline-rename mode.
func (a *App) startRename() tea.Cmd {
	row, ok := a.selectedRow()
	if !ok {
		return nil
	}
	st := a.editor.State()
	st.BeginRename(row.ID)

	a.state = renameView
	a.renameID = row.ID
	a.renameKind = row.Kind
	a.renameOriginal = row.Name
	a.renameInput.SetValue(row.Name)
	a.renameInput.CursorEnd()

	var cmd tea.Cmd
	if st.FocusRequested {
		cmd = a.renameInput.Focus()
		st.FocusRequested = false
	}
	return cmd
}

// handleRenameKey edits the name live. Enter keeps the edit, esc restores
// the original name; both leave rename mode. A name that could not be
// exported is rolled back on enter.
func (a *App) handleRenameKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		var status tea.Cmd
		name := strings.TrimSpace(a.renameInput.Value())
		if name == "" {
			a.editor.Rename(a.renameID, a.renameOriginal)
		} else if err := validateRename(a.renameKind, name); err != nil {
			a.editor.Rename(a.renameID, a.renameOriginal)
			status = a.setStatus(fmt.Sprintf("✗ %v", err))
		} else {
			a.editor.Rename(a.renameID, name)
		}
		a.editor.State().CommitRename()
		a.endRename()
		return status
	case "esc":
		a.editor.Rename(a.renameID, a.renameOriginal)
		a.editor.State().FocusLost()
		a.endRename()
		return nil
	}

	var cmd tea.Cmd
	a.renameInput, cmd = a.renameInput.Update(msg)
	if name := strings.TrimSpace(a.renameInput.Value()); name != "" {
		a.editor.Rename(a.renameID, name)
		a.dirty = true
	}
	return cmd
}

// validateRename applies the CLI's name rules plus the export's directory
// rules, so a committed name never breaks the next export.
func validateRename(kind tree.RowKind, name string) error {
	itemType, component := "chapter", name
	if kind == tree.ModuleRow {
		itemType, component = "module", book.PageName(name)
	}
	if err := files.ValidateName(name, itemType); err != nil {
		return err
	}
	if _, err := book.SafeComponent(component); err != nil {
		return err
	}
	return nil
}

func (a *App) endRename() {
	a.renameInput.Blur()
	a.renameID = models.NilID
	a.renameOriginal = ""
	a.state = browseView
	a.refreshPreview()
}

// grab starts a keyboard drag of the selected module. The payload carries
// only the module id, like a pointer drag would.
func (a *App) grab() tea.Cmd {
	row, ok := a.selectedRow()
	if !ok || row.Kind != tree.ModuleRow {
		return a.setStatus("Select a module to move")
	}
	a.grabbed = row.ID
	a.dragPayload = tree.EncodeDragPayload(row.ID)
	a.state = moveView
	return nil
}

func (a *App) handleMoveKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		a.hover(-1)
	case "down", "j":
		a.hover(1)
	case "right", "l":
		if row, ok := a.selectedRow(); ok && row.Kind == tree.ChapterRow && !row.Expanded {
			a.editor.ToggleExpanded(row.ID)
			a.hover(0)
		}
	case "enter", "m", " ":
		return a.drop()
	case "esc":
		a.editor.State().DragExit()
		a.endMove()
	}
	return nil
}

// hover moves the cursor and updates the drop indicator. Rows above the
// grabbed module insert above the hovered row, rows below insert below.
func (a *App) hover(delta int) {
	a.moveCursor(delta)
	rows := a.rows()
	row, ok := a.selectedRow()
	st := a.editor.State()
	if !ok || row.ID == a.grabbed {
		st.DragExit()
		return
	}
	if row.Kind == tree.ChapterRow {
		st.DragEnter(row.ID, false)
		return
	}
	above := a.cursor < tree.IndexOf(rows, a.grabbed)
	if st.IsDropTarget(row.ID) {
		st.DragUpdate(row.ID, above)
	} else {
		st.DragEnter(row.ID, above)
	}
}

func (a *App) drop() tea.Cmd {
	st := a.editor.State()
	target, above := st.DropTarget, st.DropInsertAbove
	moved := a.grabbed
	if target == models.NilID {
		st.DropCompleted()
		a.endMove()
		return nil
	}

	ok := a.editor.HandleDrop(a.dragPayload, target, above)
	a.endMove()
	if !ok {
		return a.setStatus("Nothing to move")
	}
	a.dirty = true
	if ci, _, found := a.editor.FindModule(moved); found {
		st.SetExpanded(a.editor.Project().Chapters[ci].ID)
	}
	st.Select(moved)
	a.syncCursor()
	if m, found := a.editor.Module(moved); found {
		return a.setStatus(logged("Moved '%s'", m.Name))
	}
	return nil
}

func (a *App) endMove() {
	a.grabbed = models.NilID
	a.dragPayload = ""
	a.state = browseView
	a.syncCursor()
}

// renderSidebar draws the visible rows, scrolled so the cursor stays in
// view.
func (a *App) renderSidebar(width, height int) string {
	rows := a.rows()
	if len(rows) == 0 {
		return EmptyStyle.Render("No chapters yet. Press c to add one\nor g to generate a book.")
	}

	st := a.editor.State()
	var lines []string
	cursorLine := 0
	dropLine := DropLineStyle.Render(strings.Repeat("─", max(width-4, 4)))

	for i, r := range rows {
		target := st.IsDropTarget(r.ID) && r.Kind == tree.ModuleRow
		if target && st.DropInsertAbove {
			lines = append(lines, "  "+dropLine)
		}
		if i == a.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, a.renderRow(r, i == a.cursor, width))
		if target && !st.DropInsertAbove {
			lines = append(lines, "  "+dropLine)
		}
	}

	if len(lines) > height {
		start := max(0, min(cursorLine-height/2, len(lines)-height))
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRow(r tree.Row, selected bool, width int) string {
	st := a.editor.State()

	var prefix, name string
	switch r.Kind {
	case tree.ChapterRow:
		prefix = "▸ "
		if r.Expanded {
			prefix = "▾ "
		}
		name = r.Name
		if ch, ok := a.editor.FindChapter(r.ID); ok {
			name = fmt.Sprintf("%s (%d)", r.Name, len(ch.Modules))
		}
	default:
		prefix = "    "
		name = r.Name
	}

	if st.IsRenaming(r.ID) && a.state == renameView {
		return prefix + a.renameInput.View()
	}

	line := truncate.StringWithTail(prefix+name, uint(max(width-1, 1)), "…")
	switch {
	case r.ID == a.grabbed:
		return GrabbedStyle.Render(line + " ⇅")
	case selected:
		return SelectedStyle.Render(line)
	case r.Kind == tree.ChapterRow && st.IsDropTarget(r.ID):
		return DropLineStyle.Render(line)
	case r.Kind == tree.ChapterRow:
		return ChapterStyle.Render(line)
	default:
		return NormalStyle.Render(line)
	}
}
