package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

func TestRenameLifecycle(t *testing.T) {
	s := NewState()
	a, b := models.NewID(), models.NewID()

	s.BeginRename(a)
	assert.True(t, s.IsRenaming(a))
	assert.True(t, s.FocusRequested)

	s.BeginRename(b)
	assert.False(t, s.IsRenaming(a), "only one node is renamed at a time")
	assert.True(t, s.IsRenaming(b))

	s.CommitRename()
	assert.False(t, s.IsRenaming(b))
	assert.False(t, s.FocusRequested)

	s.BeginRename(a)
	s.FocusLost()
	assert.False(t, s.IsRenaming(a))
	assert.False(t, s.IsRenaming(models.NilID))
}

func TestDragHoverLifecycle(t *testing.T) {
	s := NewState()
	row := models.NewID()

	s.DragEnter(row, true)
	assert.True(t, s.IsDropTarget(row))
	assert.True(t, s.DropInsertAbove)

	s.DragUpdate(row, false)
	assert.False(t, s.DropInsertAbove)

	s.DragExit()
	assert.False(t, s.IsDropTarget(row))

	s.DragEnter(row, true)
	s.DropCompleted()
	assert.Equal(t, models.NilID, s.DropTarget)
	assert.False(t, s.DropInsertAbove)
}

func TestReconcileClearsMissingIDs(t *testing.T) {
	e := newFixture([]string{"a", "b"}, []string{"c"})
	p := e.Project()
	s := e.State()
	keep := p.Chapters[0]
	gone := p.Chapters[1]

	s.Select(gone.Modules[0].ID)
	s.BeginRename(gone.ID)
	s.DragEnter(gone.Modules[0].ID, true)
	s.SetExpanded(gone.ID)
	s.SetExpanded(keep.ID)

	p.Chapters = p.Chapters[:1]
	s.Reconcile(p)

	assert.False(t, s.HasSelection())
	assert.Equal(t, models.NilID, s.Renaming)
	assert.False(t, s.FocusRequested)
	assert.Equal(t, models.NilID, s.DropTarget)
	assert.Equal(t, map[models.ID]bool{keep.ID: true}, s.Expanded)
}

func TestReconcileKeepsLiveIDs(t *testing.T) {
	e := newFixture([]string{"a"})
	s := e.State()
	m := e.Project().Chapters[0].Modules[0]

	s.Select(m.ID)
	s.BeginRename(m.ID)
	s.DragEnter(m.ID, false)
	s.Reconcile(e.Project())

	assert.Equal(t, m.ID, s.Selected)
	assert.True(t, s.IsRenaming(m.ID))
	assert.True(t, s.IsDropTarget(m.ID))
}

func TestExpandedPersistenceRoundTrip(t *testing.T) {
	e := newFixture([]string{"a"}, []string{"b"}, []string{"c"})
	p := e.Project()
	e.State().SetExpanded(p.Chapters[2].ID)
	e.State().SetExpanded(p.Chapters[0].ID)

	ids := e.State().ExpandedIDs(p)
	require.Equal(t, []models.ID{p.Chapters[0].ID, p.Chapters[2].ID}, ids)

	restored := NewState()
	restored.RestoreExpanded(append(ids, models.NewID()))
	restored.Reconcile(p)
	assert.Len(t, restored.Expanded, 2)
	assert.True(t, restored.IsExpanded(p.Chapters[2].ID))
}
