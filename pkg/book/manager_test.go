package book

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTemplate(t *testing.T) {
	m := newTestManager(t)
	dest := filepath.Join(m.WorkspaceDir, "Copy")

	root, err := m.ExtractTemplate(context.Background(), "", dest, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "Book"+BookExt), root)

	_, err = os.Stat(filepath.Join(dest, DefaultArchive))
	assert.True(t, os.IsNotExist(err), "the transient archive copy is removed")

	current, ok := m.CurrentRoot()
	require.True(t, ok)
	assert.Equal(t, root, current)

	require.NoError(t, m.AddPage("Intro", "Hello", "hello"))
	got, err := ReadPageContents(root, "Intro", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestExtractTemplateNestedPackage(t *testing.T) {
	m := newTestManager(t, templateEntries("Wrapper/")...)
	dest := filepath.Join(m.WorkspaceDir, "Copy")

	root, err := m.ExtractTemplate(context.Background(), DefaultArchive, dest, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "Wrapper", "Book"+BookExt), root)
}

func TestExtractTemplateReplaceExisting(t *testing.T) {
	m := newTestManager(t)
	dest := filepath.Join(m.WorkspaceDir, "Copy")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	stale := filepath.Join(dest, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	_, err := m.ExtractTemplate(context.Background(), "", dest, false)
	require.NoError(t, err)
	assert.FileExists(t, stale, "without replace the destination is extracted into")

	_, err = m.ExtractTemplate(context.Background(), "", dest, true)
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestExtractTemplateNotFound(t *testing.T) {
	m := newTestManager(t)

	_, err := m.ExtractTemplate(context.Background(), SampleArchive, filepath.Join(m.WorkspaceDir, "Copy"), false)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, ok := m.CurrentRoot()
	assert.False(t, ok)
}

// emptyExtractor succeeds without producing anything.
type emptyExtractor struct{}

func (emptyExtractor) Extract(context.Context, string, string) error { return nil }

func TestExtractTemplateNothingVisible(t *testing.T) {
	m := newTestManager(t)
	m.Extractor = emptyExtractor{}

	_, err := m.ExtractTemplate(context.Background(), "", filepath.Join(m.WorkspaceDir, "Copy"), false)
	require.Error(t, err)
	assert.True(t, IsKind(err, ExtractionFailed))
}

func TestExtractTemplateWithoutPackage(t *testing.T) {
	m := newTestManager(t, zipEntry{name: "README.txt", body: "no book here"})

	_, err := m.ExtractTemplate(context.Background(), "", filepath.Join(m.WorkspaceDir, "Copy"), false)
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestDuplicateTemplate(t *testing.T) {
	m := newTestManager(t)

	root, err := m.DuplicateTemplate(context.Background(), "", "My/Book", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.WorkspaceDir, "My-Book", "Book"+BookExt), root)

	marker := filepath.Join(root, "marker.txt")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0o644))

	again, err := m.DuplicateTemplate(context.Background(), "", "My/Book", false)
	require.NoError(t, err)
	assert.Equal(t, root, again)
	assert.FileExists(t, marker, "an existing copy is reused")

	_, err = m.DuplicateTemplate(context.Background(), "", "My/Book", true)
	require.NoError(t, err)
	assert.NoFileExists(t, marker)

	root, err = m.DuplicateTemplate(context.Background(), "", "", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.WorkspaceDir, DefaultCopyFolder, "Book"+BookExt), root)
}

func TestLocatePackageRoot(t *testing.T) {
	mkdir := func(t *testing.T, parts ...string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Join(parts...), 0o755))
	}

	t.Run("depth zero", func(t *testing.T) {
		dir := t.TempDir()
		mkdir(t, dir, "Book.playgroundbook")
		mkdir(t, dir, "Other", "Nested.playgroundbook")

		root, err := LocatePackageRoot(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Book.playgroundbook"), root)
	})

	t.Run("depth one", func(t *testing.T) {
		dir := t.TempDir()
		mkdir(t, dir, "Other", "Nested.playgroundbook")

		root, err := LocatePackageRoot(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Other", "Nested.playgroundbook"), root)
	})

	t.Run("hidden entries are skipped", func(t *testing.T) {
		dir := t.TempDir()
		mkdir(t, dir, ".Hidden.playgroundbook")
		mkdir(t, dir, ".cache", "Cached.playgroundbook")

		_, err := LocatePackageRoot(dir)
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})

	t.Run("depth two is too deep", func(t *testing.T) {
		dir := t.TempDir()
		mkdir(t, dir, "a", "b", "Deep.playgroundbook")

		_, err := LocatePackageRoot(dir)
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LocatePackageRoot(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})

	t.Run("manager retains the root", func(t *testing.T) {
		dir := t.TempDir()
		mkdir(t, dir, "Book.playgroundbook")

		m := NewManager("", "", nil)
		root, err := m.LocatePackageRoot(dir)
		require.NoError(t, err)
		current, ok := m.CurrentRoot()
		assert.True(t, ok)
		assert.Equal(t, root, current)
	})
}

func TestNoActivePackage(t *testing.T) {
	m := NewManager(t.TempDir(), t.TempDir(), nil)
	assert.IsType(t, CommandExtractor{}, m.Extractor)

	assert.ErrorIs(t, m.WritePageContents("C", "P", "x"), ErrNoActivePackage)
	assert.ErrorIs(t, m.AddPage("C", "P", "x"), ErrNoActivePackage)
	assert.ErrorIs(t, m.AddSharedSource("Slicer", "x"), ErrNoActivePackage)
	assert.ErrorIs(t, m.AddSharedResource("pizza.png", nil), ErrNoActivePackage)
}

func TestManagerConvenienceWrites(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Book"+BookExt)
	m := NewManager("", "", nil)
	m.SetCurrentRoot(root)

	require.NoError(t, m.WritePageContents("Intro", "Hello", "hello"))
	require.NoError(t, m.AddSharedSource("Slicer", "struct Slicer {}"))
	require.NoError(t, m.AddSharedResource("data.json", []byte("{}")))

	got, err := ReadPageContents(root, "Intro", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.FileExists(t, filepath.Join(SharedSourcesDir(root), "Slicer.swift"))
	assert.FileExists(t, filepath.Join(SharedResourcesDir(root), "data.json"))
}
