package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/playgroundstudio/pgstudio/internal/logger"
	"github.com/playgroundstudio/pgstudio/pkg/book"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/generator"
	"github.com/playgroundstudio/pgstudio/pkg/models"
	"github.com/playgroundstudio/pgstudio/pkg/tree"
)

// CommandContext manages project validation and common command context
type CommandContext struct {
	ProjectPath string
	Settings    *models.Settings
	Editor      *tree.Editor
	validated   bool
}

// NewCommandContext creates a new command context
func NewCommandContext() (*CommandContext, error) {
	return &CommandContext{
		ProjectPath: files.ProjectDir,
	}, nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}

	if _, err := os.Stat(filepath.Join(c.ProjectPath, files.ProjectFile)); os.IsNotExist(err) {
		return fmt.Errorf("no %s project found. Run 'pgstudio init' first", c.ProjectPath)
	}

	c.validated = true
	return nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := files.LoadSettings()
	if err != nil {
		PrintWarning("Using default settings: %v", err)
		settings = models.DefaultSettings()
	}

	c.Settings = settings
	return settings
}

// LoadEditor reads the project and its persisted tree state into an Editor.
func (c *CommandContext) LoadEditor() (*tree.Editor, error) {
	if c.Editor != nil {
		return c.Editor, nil
	}
	if err := c.ValidateProject(); err != nil {
		return nil, err
	}

	project, err := files.ReadProject()
	if err != nil {
		return nil, err
	}
	editor := tree.NewEditor(project)

	state, err := files.ReadTreeState()
	if err != nil {
		logger.Warn("ignoring tree state: %v", err)
	} else {
		editor.State().RestoreExpanded(state.Expanded)
		editor.State().Reconcile(editor.Project())
	}

	c.Editor = editor
	return editor, nil
}

// Save writes the project and the expanded chapters back to disk.
func (c *CommandContext) Save() error {
	if c.Editor == nil {
		return fmt.Errorf("no project loaded")
	}
	if err := files.WriteProject(c.Editor.Project()); err != nil {
		return err
	}
	ids := c.Editor.State().ExpandedIDs(c.Editor.Project())
	return files.WriteTreeState(&files.TreeState{Expanded: ids})
}

// BookManager builds the export manager from settings. The resources
// directory defaults to .pgstudio/Resources and the workspace to the
// per-user PlaygroundStudio directory.
func (c *CommandContext) BookManager() (*book.Manager, error) {
	s := c.LoadSettingsWithDefault()

	resources := s.Template.ResourcesDir
	if resources == "" {
		resources = filepath.Join(c.ProjectPath, files.ResourcesDir)
	}
	workspace := s.Workspace.Dir
	if workspace == "" {
		dir, err := book.DefaultWorkspaceDir()
		if err != nil {
			return nil, err
		}
		workspace = dir
	}

	extractor, err := book.NewExtractor(s.Template.Extractor, s.Template.UnzipPath, s.Template.Timeout)
	if err != nil {
		return nil, err
	}
	logger.Debug("resources=%s workspace=%s extractor=%s", resources, workspace, s.Template.Extractor)
	return book.NewManager(resources, workspace, extractor), nil
}

// GeneratorSession starts the generator configured in settings.
func (c *CommandContext) GeneratorSession() *generator.Session {
	return generator.NewSession(generator.New(c.LoadSettingsWithDefault().Generator))
}

// EditorLauncher handles all editor-related operations
type EditorLauncher struct {
	DefaultEditor string
}

// NewEditorLauncher creates a new editor launcher. command overrides
// $EDITOR when set.
func NewEditorLauncher(command string) *EditorLauncher {
	editor := command
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	return &EditorLauncher{
		DefaultEditor: editor,
	}
}

// OpenFile opens a file in the configured editor
func (e *EditorLauncher) OpenFile(path string) error {
	parts := strings.Fields(e.DefaultEditor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	return nil
}

// EditText opens content in the editor via a temp file and returns what
// the user saved.
func (e *EditorLauncher) EditText(pattern, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := e.OpenFile(tmpFile.Name()); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}

// ItemResolver finds chapters and modules from command-line references.
//
// A chapter reference is a 1-based index, an id, or a name. A module
// reference is an id, "<chapter>/<module>" where <module> is a 1-based
// index or name, or a bare module name that is unique in the project.
type ItemResolver struct {
	Editor *tree.Editor
}

// NewItemResolver creates a new item resolver
func NewItemResolver(editor *tree.Editor) *ItemResolver {
	return &ItemResolver{Editor: editor}
}

// FindChapter resolves a chapter reference to its index.
func (r *ItemResolver) FindChapter(ref string) (int, error) {
	chapters := r.Editor.Project().Chapters

	if id, err := uuid.Parse(ref); err == nil {
		if ci, ok := r.Editor.ChapterIndex(id); ok {
			return ci, nil
		}
		return -1, fmt.Errorf("chapter '%s' not found", ref)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(chapters) {
			return -1, fmt.Errorf("chapter index %d out of range (1-%d)", n, len(chapters))
		}
		return n - 1, nil
	}

	var matches []int
	for i, ch := range chapters {
		if strings.EqualFold(ch.Name, ref) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return -1, fmt.Errorf("chapter '%s' not found", ref)
	case 1:
		return matches[0], nil
	default:
		return -1, fmt.Errorf("multiple chapters named '%s'. Use the chapter index or id instead", ref)
	}
}

// FindModule resolves a module reference to its id.
func (r *ItemResolver) FindModule(ref string) (models.ID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if _, _, ok := r.Editor.FindModule(id); ok {
			return id, nil
		}
		return models.NilID, fmt.Errorf("module '%s' not found", ref)
	}

	if chapterRef, moduleRef, ok := strings.Cut(ref, "/"); ok {
		ci, err := r.FindChapter(chapterRef)
		if err != nil {
			return models.NilID, err
		}
		return r.findInChapter(ci, moduleRef)
	}

	var matches []models.ID
	for _, ch := range r.Editor.Project().Chapters {
		for _, m := range ch.Modules {
			if matchesModuleName(m.Name, ref) {
				matches = append(matches, m.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return models.NilID, fmt.Errorf("module '%s' not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.NilID, fmt.Errorf("multiple modules named '%s'. Please specify the chapter (e.g., 1/%s)", ref, ref)
	}
}

func (r *ItemResolver) findInChapter(ci int, ref string) (models.ID, error) {
	ch := r.Editor.Project().Chapters[ci]
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ch.Modules) {
			return models.NilID, fmt.Errorf("module index %d out of range in chapter '%s'", n, ch.Name)
		}
		return ch.Modules[n-1].ID, nil
	}
	for _, m := range ch.Modules {
		if matchesModuleName(m.Name, ref) {
			return m.ID, nil
		}
	}
	return models.NilID, fmt.Errorf("module '%s' not found in chapter '%s'", ref, ch.Name)
}

// matchesModuleName compares case-insensitively and lets the user omit
// the .swift suffix.
func matchesModuleName(name, ref string) bool {
	return strings.EqualFold(name, ref) || strings.EqualFold(book.PageName(name), ref)
}
