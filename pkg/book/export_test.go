package book

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

func exportProject(t *testing.T, p *models.Project, opts ExportOptions) string {
	t.Helper()
	root, err := NewPackage(t.TempDir(), p.Name)
	require.NoError(t, err)
	require.NoError(t, Export(context.Background(), root, p, opts))
	return root
}

func TestNewPackage(t *testing.T) {
	dir := t.TempDir()
	root, err := NewPackage(dir, "Fractions/Decimals")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Fractions-Decimals"+BookExt), root)
	assert.DirExists(t, filepath.Join(root, ContentsDir, ChaptersDir))
	assert.DirExists(t, SharedSourcesDir(root))
	assert.DirExists(t, SharedResourcesDir(root))

	_, err = NewPackage(dir, "  ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestExport(t *testing.T) {
	p := testProject()
	root := exportProject(t, p, ExportOptions{})

	for _, tt := range []struct{ chapter, page, want string }{
		{"Intro", "Hello", "hello"},
		{"Intro", "Pizza", "let slices = 4\n"},
		{"More", "Extra", "extra"},
	} {
		got, err := ReadPageContents(root, tt.chapter, tt.page)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s", tt.chapter, tt.page)
	}

	var bm BookManifest
	require.NoError(t, ReadManifest(filepath.Join(root, ContentsDir, ManifestFile), &bm))
	assert.Equal(t, "Fractions", bm.Name)
	assert.Equal(t, []string{"Intro.playgroundchapter", "More.playgroundchapter"}, bm.Chapters)

	intro, err := ChapterDir(root, "Intro")
	require.NoError(t, err)
	var cm ChapterManifest
	require.NoError(t, ReadManifest(filepath.Join(intro, ManifestFile), &cm))
	assert.Equal(t, []string{"Hello.playgroundpage", "Pizza.playgroundpage"}, cm.Pages)

	var pm PageManifest
	require.NoError(t, ReadManifest(filepath.Join(intro, PagesDir, "Hello"+PageExt, ManifestFile), &pm))
	assert.Equal(t, NewPageManifest("Hello"), pm)

	assert.Equal(t, "Fractions", p.Name, "the project is not modified")
}

func TestExportIsIdempotent(t *testing.T) {
	p := testProject()
	root := exportProject(t, p, ExportOptions{})
	before := snapshotTree(t, root)

	require.NoError(t, Export(context.Background(), root, p, ExportOptions{}))
	assert.Equal(t, before, snapshotTree(t, root))
}

func TestExportParallelism(t *testing.T) {
	p := testProject()
	for i := 0; i < 10; i++ {
		ch := models.NewChapter("Chapter " + string(rune('A'+i)))
		m := models.NewModule("Page.swift", "")
		m.Content = &models.FileContent{Source: ch.Name}
		ch.Modules = []models.Module{m}
		p.Chapters = append(p.Chapters, ch)
	}

	serial := exportProject(t, p, ExportOptions{Parallelism: 1})
	parallel := exportProject(t, p, ExportOptions{Parallelism: 8})
	assert.Equal(t, snapshotTree(t, serial), snapshotTree(t, parallel))
}

func TestExportNameCollisionsLastWins(t *testing.T) {
	p := models.NewProject("Dupes")
	first := models.NewChapter("Intro")
	a := models.NewModule("Hello.swift", "")
	a.Content = &models.FileContent{Source: "first"}
	b := models.NewModule("Hello", "")
	b.Content = &models.FileContent{Source: "second"}
	first.Modules = []models.Module{a, b}
	second := models.NewChapter("Intro")
	c := models.NewModule("Other.swift", "")
	c.Content = &models.FileContent{Source: "other"}
	second.Modules = []models.Module{c}
	p.Chapters = []models.Chapter{first, second}

	root := exportProject(t, p, ExportOptions{})

	got, err := ReadPageContents(root, "Intro", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	var bm BookManifest
	require.NoError(t, ReadManifest(filepath.Join(root, ContentsDir, ManifestFile), &bm))
	assert.Equal(t, []string{"Intro.playgroundchapter"}, bm.Chapters)

	intro, err := ChapterDir(root, "Intro")
	require.NoError(t, err)
	var cm ChapterManifest
	require.NoError(t, ReadManifest(filepath.Join(intro, ManifestFile), &cm))
	assert.Equal(t, []string{"Other.playgroundpage"}, cm.Pages, "the last chapter's manifest wins")
	assert.DirExists(t, filepath.Join(intro, PagesDir, "Hello"+PageExt))
}

func TestExportCaseOnlyCollisions(t *testing.T) {
	newProject := func() *models.Project {
		p := models.NewProject("Dupes")
		first := models.NewChapter("Intro")
		hello := models.NewModule("Hello.swift", "")
		hello.Content = &models.FileContent{Source: "first"}
		lower := models.NewModule("hello.swift", "")
		lower.Content = &models.FileContent{Source: "second"}
		pizza := models.NewModule("Pizza.swift", "")
		pizza.Content = &models.FileContent{Source: "pizza"}
		first.Modules = []models.Module{hello, lower, pizza}
		second := models.NewChapter("intro")
		other := models.NewModule("Other.swift", "")
		other.Content = &models.FileContent{Source: "other"}
		second.Modules = []models.Module{other}
		p.Chapters = []models.Chapter{first, second}
		return p
	}

	t.Run("one directory per folded name", func(t *testing.T) {
		root := exportProject(t, newProject(), ExportOptions{Parallelism: 8})
		chapters := filepath.Join(root, ContentsDir, ChaptersDir)
		assert.Equal(t, []string{"Intro.playgroundchapter"}, dirNames(t, chapters))

		var bm BookManifest
		require.NoError(t, ReadManifest(filepath.Join(root, ContentsDir, ManifestFile), &bm))
		assert.Equal(t, []string{"Intro.playgroundchapter"}, bm.Chapters)

		intro := filepath.Join(chapters, "Intro.playgroundchapter")
		assert.Equal(t, []string{"Hello.playgroundpage", "Other.playgroundpage", "Pizza.playgroundpage"},
			dirNames(t, filepath.Join(intro, PagesDir)))
		got, err := ReadPageContents(root, "Intro", "Hello")
		require.NoError(t, err)
		assert.Equal(t, "second", got)

		var cm ChapterManifest
		require.NoError(t, ReadManifest(filepath.Join(intro, ManifestFile), &cm))
		assert.Equal(t, "intro", cm.Name, "the last chapter in tree order wins")
		assert.Equal(t, []string{"Other.playgroundpage"}, cm.Pages)
	})

	t.Run("prune follows the last chapter", func(t *testing.T) {
		root := exportProject(t, newProject(), ExportOptions{Parallelism: 8, Prune: true})
		intro := filepath.Join(root, ContentsDir, ChaptersDir, "Intro.playgroundchapter")
		assert.Equal(t, []string{"Other.playgroundpage"}, dirNames(t, filepath.Join(intro, PagesDir)))
	})
}

func TestExportManifestsKeepDisplayNames(t *testing.T) {
	p := models.NewProject("Fractions")
	ch := models.NewChapter("Halves/Quarters")
	m := models.NewModule("One/Two.swift", "")
	ch.Modules = []models.Module{m}
	p.Chapters = []models.Chapter{ch}

	root := exportProject(t, p, ExportOptions{})
	dir, err := ChapterDir(root, ch.Name)
	require.NoError(t, err)
	assert.Equal(t, "Halves-Quarters"+ChapterExt, filepath.Base(dir))

	var cm ChapterManifest
	require.NoError(t, ReadManifest(filepath.Join(dir, ManifestFile), &cm))
	assert.Equal(t, "Halves/Quarters", cm.Name)
	assert.Equal(t, []string{"One-Two" + PageExt}, cm.Pages)

	var pm PageManifest
	require.NoError(t, ReadManifest(filepath.Join(dir, PagesDir, "One-Two"+PageExt, ManifestFile), &pm))
	assert.Equal(t, NewPageManifest("One/Two"), pm)
}

func TestExportPrune(t *testing.T) {
	p := testProject()
	root := exportProject(t, p, ExportOptions{})

	p.Chapters = p.Chapters[:1]
	p.Chapters[0].Modules = p.Chapters[0].Modules[:1]

	require.NoError(t, Export(context.Background(), root, p, ExportOptions{}))
	chapters := filepath.Join(root, ContentsDir, ChaptersDir)
	assert.ElementsMatch(t, []string{"Intro.playgroundchapter", "More.playgroundchapter"}, dirNames(t, chapters))

	require.NoError(t, Export(context.Background(), root, p, ExportOptions{Prune: true}))
	assert.Equal(t, []string{"Intro.playgroundchapter"}, dirNames(t, chapters))

	intro, err := ChapterDir(root, "Intro")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello.playgroundpage"}, dirNames(t, filepath.Join(intro, PagesDir)))
}

func TestExportCancelled(t *testing.T) {
	root, err := NewPackage(t.TempDir(), "Fractions")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Export(ctx, root, testProject(), ExportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportInvalidName(t *testing.T) {
	p := testProject()
	p.Chapters[0].Name = ".."
	root, err := NewPackage(t.TempDir(), p.Name)
	require.NoError(t, err)

	err = Export(context.Background(), root, p, ExportOptions{})
	assert.True(t, IsKind(err, WriteFailed))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestSave(t *testing.T) {
	root := exportProject(t, testProject(), ExportOptions{})
	dest := filepath.Join(t.TempDir(), "Saved", "Fractions"+BookExt)

	require.NoError(t, Save(context.Background(), root, dest))
	assert.Equal(t, snapshotTree(t, root), snapshotTree(t, dest))
}

func TestSaveReplacesDestination(t *testing.T) {
	root := exportProject(t, testProject(), ExportOptions{})
	dest := filepath.Join(t.TempDir(), "Fractions"+BookExt)
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("old"), 0o644))

	require.NoError(t, Save(context.Background(), root, dest))
	assert.NoFileExists(t, filepath.Join(dest, "stale.txt"))
	assert.Equal(t, snapshotTree(t, root), snapshotTree(t, dest))
	assert.Equal(t, []string{"Fractions" + BookExt}, dirNames(t, filepath.Dir(dest)), "no staging directory is left behind")
}

func TestSaveFailureKeepsDestination(t *testing.T) {
	root := exportProject(t, testProject(), ExportOptions{})
	dest := filepath.Join(t.TempDir(), "Fractions"+BookExt)
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "previous.txt"), []byte("old"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Save(ctx, root, dest)
	require.Error(t, err)
	assert.True(t, IsKind(err, CopyFailed))

	assert.Equal(t, "old", readFile(t, filepath.Join(dest, "previous.txt")))
	assert.Equal(t, []string{"Fractions" + BookExt}, dirNames(t, filepath.Dir(dest)))
}

func TestSaveMissingSource(t *testing.T) {
	err := Save(context.Background(), filepath.Join(t.TempDir(), "none"), filepath.Join(t.TempDir(), "out"+BookExt))
	assert.True(t, IsKind(err, CopyFailed))
}

func TestPack(t *testing.T) {
	root := exportProject(t, testProject(), ExportOptions{})
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "Fractions.zip")

	require.NoError(t, Pack(context.Background(), root, zipPath))

	out := filepath.Join(dir, "out")
	require.NoError(t, ZipExtractor{}.Extract(context.Background(), zipPath, out))
	located, err := LocatePackageRoot(out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Fractions"+BookExt), located)
	assert.Equal(t, snapshotTree(t, root), snapshotTree(t, located))
}

func TestPackIsReproducible(t *testing.T) {
	root := exportProject(t, testProject(), ExportOptions{})
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.zip"), filepath.Join(dir, "b.zip")

	require.NoError(t, Pack(context.Background(), root, a))
	require.NoError(t, Pack(context.Background(), root, b))

	first, err := os.ReadFile(a)
	require.NoError(t, err)
	second, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestDiff(t *testing.T) {
	p := testProject()
	root := exportProject(t, p, ExportOptions{})

	p.Chapters[0].Modules[1].Content.Source = "let slices = 8\n"
	added := models.NewModule("New.swift", "")
	added.Content = &models.FileContent{Source: "new page\n"}
	p.Chapters[1].Modules = append(p.Chapters[1].Modules, added)

	diffs, err := Diff(root, p)
	require.NoError(t, err)
	require.Len(t, diffs, 4)

	status := map[string]PageStatus{}
	for _, d := range diffs {
		status[d.Chapter+"/"+d.Page] = d.Status
	}
	assert.Equal(t, map[string]PageStatus{
		"Intro/Hello": PageUnchanged,
		"Intro/Pizza": PageModified,
		"More/Extra":  PageUnchanged,
		"More/New":    PageAdded,
	}, status)

	assert.Empty(t, diffs[0].Patch)
	assert.Contains(t, diffs[1].Patch, "-let slices = 4")
	assert.Contains(t, diffs[1].Patch, "+let slices = 8")
	assert.True(t, strings.HasPrefix(diffs[3].Patch, "--- /dev/null"))
	assert.Contains(t, diffs[3].Patch, "+new page")
}

// snapshotTree maps every regular file under root to its contents.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
