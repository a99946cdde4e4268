package tree

import (
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// State tracks ephemeral editing state for the sidebar. It only holds IDs,
// never nodes, and must be reconciled against the tree after every
// structural change. It is not safe for concurrent use.
type State struct {
	Selected        models.ID // selected chapter or module
	Renaming        models.ID // node in inline-rename mode
	DropTarget      models.ID // module row hovered during a drag
	DropInsertAbove bool      // insertion line above (true) or below the hovered row
	FocusRequested  bool      // rename field should take input focus
	Expanded        map[models.ID]bool
}

// NewState creates an empty state.
func NewState() *State {
	return &State{Expanded: make(map[models.ID]bool)}
}

// Select marks id as the selected node.
func (s *State) Select(id models.ID) {
	s.Selected = id
}

// ClearSelection drops the selection.
func (s *State) ClearSelection() {
	s.Selected = models.NilID
}

// HasSelection reports whether any node is selected.
func (s *State) HasSelection() bool {
	return s.Selected != models.NilID
}

// BeginRename puts id into inline-rename mode. Any other node leaves rename
// mode, since at most one node is renamed at a time.
func (s *State) BeginRename(id models.ID) {
	s.Renaming = id
	s.FocusRequested = true
}

// CommitRename ends rename mode after the text field is submitted.
func (s *State) CommitRename() {
	s.Renaming = models.NilID
	s.FocusRequested = false
}

// FocusLost ends rename mode when the text field loses focus.
func (s *State) FocusLost() {
	s.CommitRename()
}

// IsRenaming reports whether id is currently being renamed.
func (s *State) IsRenaming(id models.ID) bool {
	return s.Renaming != models.NilID && s.Renaming == id
}

// DragEnter records the hovered row and which half of it the pointer is in.
func (s *State) DragEnter(id models.ID, above bool) {
	s.DropTarget = id
	s.DropInsertAbove = above
}

// DragUpdate is DragEnter for pointer movement within a row.
func (s *State) DragUpdate(id models.ID, above bool) {
	s.DragEnter(id, above)
}

// DragExit clears the hover indicator.
func (s *State) DragExit() {
	s.DropTarget = models.NilID
	s.DropInsertAbove = false
}

// DropCompleted clears the hover indicator once a drop has been handled.
func (s *State) DropCompleted() {
	s.DragExit()
}

// IsDropTarget reports whether id is the hovered row.
func (s *State) IsDropTarget(id models.ID) bool {
	return s.DropTarget != models.NilID && s.DropTarget == id
}

// ToggleExpanded flips the expanded flag of a chapter.
func (s *State) ToggleExpanded(chapterID models.ID) {
	if s.Expanded[chapterID] {
		delete(s.Expanded, chapterID)
		return
	}
	s.Expanded[chapterID] = true
}

// SetExpanded marks a chapter expanded.
func (s *State) SetExpanded(chapterID models.ID) {
	s.Expanded[chapterID] = true
}

// IsExpanded reports whether a chapter is expanded.
func (s *State) IsExpanded(chapterID models.ID) bool {
	return s.Expanded[chapterID]
}

// ExpandedIDs returns the expanded chapter ids in tree order.
func (s *State) ExpandedIDs(p *models.Project) []models.ID {
	ids := []models.ID{}
	for _, ch := range p.Chapters {
		if s.Expanded[ch.ID] {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

// RestoreExpanded replaces the expanded set, e.g. from persisted state.
// Unknown IDs are dropped on the next Reconcile.
func (s *State) RestoreExpanded(ids []models.ID) {
	s.Expanded = make(map[models.ID]bool, len(ids))
	for _, id := range ids {
		s.Expanded[id] = true
	}
}

// Reconcile clears every ID that no longer refers to a node in p.
func (s *State) Reconcile(p *models.Project) {
	chapters := make(map[models.ID]bool, len(p.Chapters))
	nodes := make(map[models.ID]bool, len(p.Chapters)+p.ModuleCount())
	modules := make(map[models.ID]bool, p.ModuleCount())
	for _, ch := range p.Chapters {
		chapters[ch.ID] = true
		nodes[ch.ID] = true
		for _, m := range ch.Modules {
			nodes[m.ID] = true
			modules[m.ID] = true
		}
	}

	if !nodes[s.Selected] {
		s.Selected = models.NilID
	}
	if !nodes[s.Renaming] {
		s.Renaming = models.NilID
		s.FocusRequested = false
	}
	if !modules[s.DropTarget] && !chapters[s.DropTarget] {
		s.DragExit()
	}
	for id := range s.Expanded {
		if !chapters[id] {
			delete(s.Expanded, id)
		}
	}
}
