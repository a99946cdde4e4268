package book

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeComponent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Intro", want: "Intro"},
		{name: "spaces kept", input: "Shared Playground Support", want: "Shared Playground Support"},
		{name: "trimmed", input: "  Intro \t", want: "Intro"},
		{name: "slash", input: "Fractions/Decimals", want: "Fractions-Decimals"},
		{name: "backslash", input: `a\b`, want: "a-b"},
		{name: "control characters dropped", input: "In\x00tro\n", want: "Intro"},
		{name: "traversal is flattened", input: "../etc", want: "..-etc"},
		{name: "empty", input: "", wantErr: true},
		{name: "only spaces", input: "   ", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeComponent(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello.swift", "Hello"},
		{"Hello", "Hello"},
		{"Hello.swift.swift", "Hello.swift"},
		{".swift", ".swift"},
		{"Notes.txt", "Notes.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, PageName(tt.input))
		})
	}
}

func TestLayoutPaths(t *testing.T) {
	root := filepath.Join("out", "Book"+BookExt)

	dir, err := PageDir(root, "Intro", "Hello")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Contents", "Chapters", "Intro.playgroundchapter", "Pages", "Hello.playgroundpage"), dir)

	assert.Equal(t, filepath.Join(root, "Contents", "Shared Playground Support", "Sources"), SharedSourcesDir(root))
	assert.Equal(t, filepath.Join(root, "Contents", "Shared Playground Support", "Resources"), SharedResourcesDir(root))

	_, err = PageDir(root, "", "Hello")
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.True(t, IsPackageRoot("Book.playgroundbook"))
	assert.True(t, IsPackageRoot("Book.PlaygroundBook"))
	assert.False(t, IsPackageRoot("Book.playgroundchapter"))
}

func TestPageRoundTrip(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, WritePageContents(root, "C", "P", "hello"))
	got, err := ReadPageContents(root, "C", "P")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	require.NoError(t, WritePageContents(root, "C", "P", "hello again"))
	got, err = ReadPageContents(root, "C", "P")
	require.NoError(t, err)
	assert.Equal(t, "hello again", got)
}

func TestAddPage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, AddPage(root, "Intro", "Welcome", DefaultPageCode))

	dir, err := PageDir(root, "Intro", "Welcome")
	require.NoError(t, err)
	assert.Equal(t, DefaultPageCode, readFile(t, filepath.Join(dir, PageSourceFile)))

	var manifest PageManifest
	require.NoError(t, ReadManifest(filepath.Join(dir, ManifestFile), &manifest))
	assert.Equal(t, NewPageManifest("Welcome"), manifest)
}

func TestSharedFiles(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, AddSharedSource(root, "Slicer", "struct Slicer {}"))
	assert.Equal(t, "struct Slicer {}", readFile(t, filepath.Join(SharedSourcesDir(root), "Slicer.swift")))

	require.NoError(t, AddSharedResource(root, "pizza.png", []byte{0x89, 'P', 'N', 'G'}))
	assert.Equal(t, "\x89PNG", readFile(t, filepath.Join(SharedResourcesDir(root), "pizza.png")))

	err := AddSharedSource(root, "..", "x")
	assert.True(t, IsKind(err, WriteFailed))
	assert.ErrorIs(t, err, ErrInvalidName)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk unplugged")
}

func TestInterruptedWriteKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PageSourceFile)
	require.NoError(t, writeFileAtomic(path, []byte("old")))

	err := writeAtomic(path, io.MultiReader(strings.NewReader("partial new content"), failingReader{}))
	require.Error(t, err)
	assert.True(t, IsKind(err, WriteFailed))

	assert.Equal(t, "old", readFile(t, path))
	assert.Equal(t, []string{PageSourceFile}, dirNames(t, dir), "no pending file is left behind")
}

func TestInterruptedWriteCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.swift")

	err := writeAtomic(path, failingReader{})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, dirNames(t, dir))
}
