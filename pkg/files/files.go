package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

const (
	ProjectDir        = ".pgstudio"
	ProjectFile       = "project.yaml"
	TreeStateFile     = "tree.yaml"
	WalkthroughFile   = "walkthrough.yaml"
	SettingsFile      = "settings.yaml"
	ArchiveDir        = "archive"
	ResourcesDir      = "Resources"
	DefaultOutputFile = "BOOK.md"
)

// TreeState is the persisted part of the sidebar state. Selection, rename
// and drag state are ephemeral and never written.
type TreeState struct {
	Expanded []models.ID `yaml:"expanded"`
}

func InitProjectStructure() error {
	dirs := []string{
		ProjectDir,
		filepath.Join(ProjectDir, ArchiveDir),
		filepath.Join(ProjectDir, ResourcesDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ProjectExists reports whether the working directory holds a project.
func ProjectExists() bool {
	_, err := os.Stat(filepath.Join(ProjectDir, ProjectFile))
	return err == nil
}

func ReadProject() (*models.Project, error) {
	path := filepath.Join(ProjectDir, ProjectFile)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no project found in %s (run 'pgstudio init' first)", ProjectDir)
		}
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var project models.Project
	if err := yaml.Unmarshal(content, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project YAML %s: %w", path, err)
	}
	project.EnsureIDs()

	return &project, nil
}

func WriteProject(project *models.Project) error {
	if project == nil {
		return fmt.Errorf("cannot write nil project")
	}
	if err := writeYAML(filepath.Join(ProjectDir, ProjectFile), project); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// ReadTreeState returns the persisted tree state. A missing file is an
// empty state.
func ReadTreeState() (*TreeState, error) {
	content, err := os.ReadFile(filepath.Join(ProjectDir, TreeStateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &TreeState{}, nil
		}
		return nil, fmt.Errorf("failed to read tree state: %w", err)
	}

	var state TreeState
	if err := yaml.Unmarshal(content, &state); err != nil {
		return nil, fmt.Errorf("failed to parse tree state: %w", err)
	}
	return &state, nil
}

func WriteTreeState(state *TreeState) error {
	if err := writeYAML(filepath.Join(ProjectDir, TreeStateFile), state); err != nil {
		return fmt.Errorf("failed to write tree state: %w", err)
	}
	return nil
}

// ReadWalkthrough returns the project's walkthrough, or the sample one when
// none has been written yet.
func ReadWalkthrough() (models.Walkthrough, error) {
	content, err := os.ReadFile(filepath.Join(ProjectDir, WalkthroughFile))
	if err != nil {
		if os.IsNotExist(err) {
			return models.SampleWalkthrough(), nil
		}
		return models.Walkthrough{}, fmt.Errorf("failed to read walkthrough: %w", err)
	}

	var w models.Walkthrough
	if err := yaml.Unmarshal(content, &w); err != nil {
		return models.Walkthrough{}, fmt.Errorf("failed to parse walkthrough: %w", err)
	}
	if err := w.Validate(); err != nil {
		return models.Walkthrough{}, fmt.Errorf("invalid walkthrough: %w", err)
	}
	return w, nil
}

func WriteWalkthrough(w models.Walkthrough) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid walkthrough: %w", err)
	}
	return writeYAML(filepath.Join(ProjectDir, WalkthroughFile), w)
}

// WriteFile writes content to a file (for BOOK.md output)
func WriteFile(path string, content string) error {
	if err := renameio.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

func writeYAML(path string, v any) error {
	content, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := renameio.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
