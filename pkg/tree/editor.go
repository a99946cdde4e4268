// Package tree implements in-memory editing of a project's chapter/module tree
// and the ephemeral selection state that goes with it.
//
// Editor methods are synchronous and never fail: operations that target an
// ID which is no longer in the tree are silent no-ops, since rename and move
// are driven by live UI gestures during which a node can disappear. The
// package does no locking; callers mutate from a single goroutine.
package tree

import (
	"fmt"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// Editor owns a project tree and its editing state.
type Editor struct {
	project *models.Project
	state   *State
}

// NewEditor wraps p. A nil project starts an empty, untitled one.
func NewEditor(p *models.Project) *Editor {
	if p == nil {
		p = models.NewProject("Untitled")
	}
	e := &Editor{project: p, state: NewState()}
	e.state.Reconcile(p)
	return e
}

// Project returns the live tree.
func (e *Editor) Project() *models.Project {
	return e.project
}

// State returns the live editing state.
func (e *Editor) State() *State {
	return e.state
}

// Snapshot returns a deep copy of the tree for export.
func (e *Editor) Snapshot() *models.Project {
	return e.project.Clone()
}

// Replace swaps in a whole new tree, e.g. the latest generator snapshot.
// Nothing is merged; ephemeral state pointing into the old tree is cleared.
func (e *Editor) Replace(p *models.Project) {
	if p == nil {
		return
	}
	p.EnsureIDs()
	e.project = p
	e.state.Reconcile(p)
}

// AddChapter appends "New Chapter N" and selects it. The returned pointer
// is valid until the next structural change.
func (e *Editor) AddChapter() *models.Chapter {
	name := fmt.Sprintf("New Chapter %d", len(e.project.Chapters)+1)
	e.project.Chapters = append(e.project.Chapters, models.NewChapter(name))
	ch := &e.project.Chapters[len(e.project.Chapters)-1]
	e.state.Select(ch.ID)
	e.state.Reconcile(e.project)
	return ch
}

// AddModule appends "NewFile{k}.swift" to the target chapter, where k is the
// chapter's current module count plus one. The target is the selected
// chapter, else the chapter holding the selected module, else the last
// chapter; a chapter is created first when there are none. The target is
// marked expanded.
func (e *Editor) AddModule() *models.Module {
	if len(e.project.Chapters) == 0 {
		e.AddChapter()
	}

	ci := e.targetChapterIndex()
	ch := &e.project.Chapters[ci]
	name := fmt.Sprintf("NewFile%d.swift", len(ch.Modules)+1)
	ch.Modules = append(ch.Modules, models.NewModule(name, ""))
	e.state.SetExpanded(ch.ID)
	e.state.Reconcile(e.project)
	return &ch.Modules[len(ch.Modules)-1]
}

func (e *Editor) targetChapterIndex() int {
	if e.state.HasSelection() {
		if ci, ok := e.ChapterIndex(e.state.Selected); ok {
			return ci
		}
		if ci, _, ok := e.FindModule(e.state.Selected); ok {
			return ci
		}
	}
	return len(e.project.Chapters) - 1
}

// RenameChapter overwrites a chapter's name. Unknown ids are ignored.
func (e *Editor) RenameChapter(id models.ID, name string) {
	if ci, ok := e.ChapterIndex(id); ok {
		e.project.Chapters[ci].Name = name
	}
}

// RenameModule overwrites a module's name. Unknown ids are ignored.
func (e *Editor) RenameModule(id models.ID, name string) {
	if ci, mi, ok := e.FindModule(id); ok {
		e.project.Chapters[ci].Modules[mi].Name = name
	}
}

// Rename renames whichever node carries id.
func (e *Editor) Rename(id models.ID, name string) {
	e.RenameChapter(id, name)
	e.RenameModule(id, name)
}

// SetModuleDescription overwrites a module's guidance text.
func (e *Editor) SetModuleDescription(id models.ID, description string) {
	if ci, mi, ok := e.FindModule(id); ok {
		e.project.Chapters[ci].Modules[mi].Description = description
	}
}

// SetModuleSource replaces a module's source text, creating content if absent.
func (e *Editor) SetModuleSource(id models.ID, source string) {
	ci, mi, ok := e.FindModule(id)
	if !ok {
		return
	}
	m := &e.project.Chapters[ci].Modules[mi]
	if m.Content == nil {
		m.Content = &models.FileContent{Title: m.Name}
	}
	m.Content.Source = source
}

// MoveModule moves a module to the end of the chapter at toChapter.
func (e *Editor) MoveModule(id models.ID, toChapter int) {
	e.move(id, toChapter, -1, false)
}

// MoveModuleAt moves a module into the chapter at toChapter at position at.
// The position is clamped to [0, len] of the target after the module has
// been removed from its source, so same-chapter moves need no adjustment.
func (e *Editor) MoveModuleAt(id models.ID, toChapter, at int) {
	e.move(id, toChapter, at, true)
}

func (e *Editor) move(id models.ID, toChapter, at int, positioned bool) {
	if toChapter < 0 || toChapter >= len(e.project.Chapters) {
		return
	}
	ci, mi, ok := e.FindModule(id)
	if !ok {
		return
	}

	src := &e.project.Chapters[ci]
	module := src.Modules[mi]
	src.Modules = append(src.Modules[:mi], src.Modules[mi+1:]...)

	dst := &e.project.Chapters[toChapter]
	insert := len(dst.Modules)
	if positioned {
		insert = clamp(at, 0, len(dst.Modules))
	}
	dst.Modules = append(dst.Modules, models.Module{})
	copy(dst.Modules[insert+1:], dst.Modules[insert:])
	dst.Modules[insert] = module

	e.state.SetExpanded(dst.ID)
	e.state.Reconcile(e.project)
}

// RemoveModule deletes a module. Unknown ids are ignored.
func (e *Editor) RemoveModule(id models.ID) {
	ci, mi, ok := e.FindModule(id)
	if !ok {
		return
	}
	ch := &e.project.Chapters[ci]
	ch.Modules = append(ch.Modules[:mi], ch.Modules[mi+1:]...)
	e.state.Reconcile(e.project)
}

// RemoveChapter deletes a chapter and all of its modules.
func (e *Editor) RemoveChapter(id models.ID) {
	ci, ok := e.ChapterIndex(id)
	if !ok {
		return
	}
	e.project.Chapters = append(e.project.Chapters[:ci], e.project.Chapters[ci+1:]...)
	e.state.Reconcile(e.project)
}

// ToggleExpanded flips a chapter's expanded flag. Unknown ids are ignored.
func (e *Editor) ToggleExpanded(chapterID models.ID) {
	if _, ok := e.ChapterIndex(chapterID); ok {
		e.state.ToggleExpanded(chapterID)
	}
}

// ChapterIndex returns the position of the chapter with id.
func (e *Editor) ChapterIndex(id models.ID) (int, bool) {
	for i := range e.project.Chapters {
		if e.project.Chapters[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindChapter returns the chapter with id.
func (e *Editor) FindChapter(id models.ID) (*models.Chapter, bool) {
	ci, ok := e.ChapterIndex(id)
	if !ok {
		return nil, false
	}
	return &e.project.Chapters[ci], true
}

// FindModule returns the (chapter, module) position of the module with id.
func (e *Editor) FindModule(id models.ID) (chapter, module int, ok bool) {
	for ci := range e.project.Chapters {
		for mi := range e.project.Chapters[ci].Modules {
			if e.project.Chapters[ci].Modules[mi].ID == id {
				return ci, mi, true
			}
		}
	}
	return -1, -1, false
}

// Module returns the module with id.
func (e *Editor) Module(id models.ID) (*models.Module, bool) {
	ci, mi, ok := e.FindModule(id)
	if !ok {
		return nil, false
	}
	return &e.project.Chapters[ci].Modules[mi], true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
