package book

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// zipEntry is one archive member. Names ending in "/" are directories.
type zipEntry struct {
	name string
	body string
}

func writeZip(t *testing.T, path string, entries ...zipEntry) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

// templateEntries is a minimal template with the package under prefix.
func templateEntries(prefix string) []zipEntry {
	root := prefix + "Book" + BookExt + "/"
	return []zipEntry{
		{name: root},
		{name: root + "Contents/"},
		{name: root + "Contents/Manifest.plist", body: "<plist/>"},
		{name: root + "Contents/Chapters/"},
	}
}

// newTestManager returns a manager over a resources dir holding
// Template.zip and a fresh workspace, with fast visibility polling.
func newTestManager(t *testing.T, entries ...zipEntry) *Manager {
	t.Helper()
	resources := t.TempDir()
	if len(entries) == 0 {
		entries = templateEntries("")
	}
	writeZip(t, filepath.Join(resources, DefaultArchive), entries...)

	m := NewManager(resources, t.TempDir(), ZipExtractor{})
	m.VisibilityAttempts = 3
	m.VisibilityInterval = 5 * time.Millisecond
	return m
}

// testProject builds Intro [Hello, Pizza] and More [Extra].
func testProject() *models.Project {
	p := models.NewProject("Fractions")
	intro := models.NewChapter("Intro")
	hello := models.NewModule("Hello.swift", "")
	hello.Content = &models.FileContent{Source: "hello"}
	pizza := models.NewModule("Pizza.swift", "")
	pizza.Content = &models.FileContent{Source: "let slices = 4\n"}
	intro.Modules = []models.Module{hello, pizza}
	more := models.NewChapter("More")
	extra := models.NewModule("Extra.swift", "")
	extra.Content = &models.FileContent{Source: "extra"}
	more.Modules = []models.Module{extra}
	p.Chapters = []models.Chapter{intro, more}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
