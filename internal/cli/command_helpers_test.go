package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgroundstudio/pgstudio/pkg/models"
	"github.com/playgroundstudio/pgstudio/pkg/tree"
)

func newResolver() (*ItemResolver, *models.Project) {
	p := models.NewProject("Fractions")
	intro := models.NewChapter("Intro")
	intro.Modules = append(intro.Modules, models.NewModule("Hello.swift", ""), models.NewModule("Pizza.swift", ""))
	more := models.NewChapter("More")
	more.Modules = append(more.Modules, models.NewModule("Pizza.swift", ""))
	dup := models.NewChapter("intro")
	p.Chapters = append(p.Chapters, intro, more, dup)
	return NewItemResolver(tree.NewEditor(p)), p
}

func TestItemResolver_FindChapter(t *testing.T) {
	r, p := newResolver()

	tests := []struct {
		name    string
		ref     string
		want    int
		wantErr bool
	}{
		{"by index", "2", 1, false},
		{"by id", p.Chapters[1].ID.String(), 1, false},
		{"by name", "more", 1, false},
		{"ambiguous name", "Intro", -1, true},
		{"index out of range", "4", -1, true},
		{"zero index", "0", -1, true},
		{"unknown name", "Nope", -1, true},
		{"unknown id", models.NewID().String(), -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindChapter(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemResolver_FindModule(t *testing.T) {
	r, p := newResolver()
	hello := p.Chapters[0].Modules[0].ID
	pizzaMore := p.Chapters[1].Modules[0].ID

	tests := []struct {
		name    string
		ref     string
		want    models.ID
		wantErr bool
	}{
		{"unique bare name", "Hello.swift", hello, false},
		{"bare name without extension", "hello", hello, false},
		{"ambiguous bare name", "Pizza", models.NilID, true},
		{"qualified by chapter name", "More/Pizza", pizzaMore, false},
		{"qualified by index", "1/1", hello, false},
		{"module index out of range", "1/9", models.NilID, true},
		{"by id", pizzaMore.String(), pizzaMore, false},
		{"unknown chapter", "Nope/Pizza", models.NilID, true},
		{"unknown module", "More/Hello", models.NilID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindModule(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEditorLauncher(t *testing.T) {
	t.Setenv("EDITOR", "nano")

	assert.Equal(t, "code --wait", NewEditorLauncher("code --wait").DefaultEditor)
	assert.Equal(t, "nano", NewEditorLauncher("").DefaultEditor)

	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", NewEditorLauncher("").DefaultEditor)
}

func TestEditorLauncher_EditText(t *testing.T) {
	// "true" leaves the file untouched, so the original text comes back.
	e := &EditorLauncher{DefaultEditor: "true"}
	got, err := e.EditText("pgstudio-*.swift", "print(\"hello\")\n")
	require.NoError(t, err)
	assert.Equal(t, "print(\"hello\")\n", got)
}

func TestCommandContext_ValidateProject(t *testing.T) {
	c := &CommandContext{ProjectPath: t.TempDir()}
	err := c.ValidateProject()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pgstudio init")
}
