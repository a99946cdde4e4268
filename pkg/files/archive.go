package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// ArchivedProject is a snapshot kept in .pgstudio/archive. A snapshot is
// archived every time a generator result replaces the working project.
type ArchivedProject struct {
	Path     string
	Name     string
	Modules  int
	Modified time.Time
}

// ArchiveProject writes a copy of project to the archive and returns the
// archive file name.
func ArchiveProject(project *models.Project, now time.Time) (string, error) {
	if project == nil {
		return "", fmt.Errorf("cannot archive nil project")
	}

	filename := fmt.Sprintf("%s-%s.yaml", Slugify(project.Name), now.UTC().Format("20060102T150405.000Z"))
	fullPath := filepath.Join(ProjectDir, ArchiveDir, filename)
	if err := writeYAML(fullPath, project); err != nil {
		return "", fmt.Errorf("failed to write archived project: %w", err)
	}

	return filename, nil
}

// ListArchivedProjects returns archived snapshots, newest first.
func ListArchivedProjects() ([]ArchivedProject, error) {
	archivePath := filepath.Join(ProjectDir, ArchiveDir)

	entries, err := os.ReadDir(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []ArchivedProject{}, nil
		}
		return nil, fmt.Errorf("failed to list archived projects: %w", err)
	}

	var archived []ArchivedProject
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		p, err := ReadArchivedProject(entry.Name())
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archived = append(archived, ArchivedProject{
			Path:     entry.Name(),
			Name:     p.Name,
			Modules:  p.ModuleCount(),
			Modified: info.ModTime(),
		})
	}

	sort.SliceStable(archived, func(i, j int) bool {
		ti, tj := archiveStamp(archived[i].Path), archiveStamp(archived[j].Path)
		if ti != tj {
			return ti > tj
		}
		return archived[i].Path > archived[j].Path
	})
	return archived, nil
}

// archiveStamp returns the timestamp suffix of an archive file name. The
// layout sorts lexically in time order.
func archiveStamp(name string) string {
	name = strings.TrimSuffix(name, ".yaml")
	if i := strings.LastIndex(name, "-"); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// ReadArchivedProject reads an archived snapshot by file name.
func ReadArchivedProject(path string) (*models.Project, error) {
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid archive path: %w", err)
	}

	content, err := os.ReadFile(filepath.Join(ProjectDir, ArchiveDir, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("archived project not found at path '%s'", path)
		}
		return nil, fmt.Errorf("failed to read archived project: %w", err)
	}

	var project models.Project
	if err := yaml.Unmarshal(content, &project); err != nil {
		return nil, fmt.Errorf("failed to parse archived project %s: %w", path, err)
	}
	project.EnsureIDs()
	return &project, nil
}

// DeleteArchivedProject deletes an archived snapshot
func DeleteArchivedProject(path string) error {
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid archive path: %w", err)
	}

	absPath := filepath.Join(ProjectDir, ArchiveDir, path)

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("archived project not found at path '%s'", path)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to delete archived project '%s': %w", path, err)
	}

	return nil
}

// validatePath rejects paths that would escape the directory they are
// resolved against.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsLocal(path) {
		return fmt.Errorf("path '%s' must stay inside %s", path, ProjectDir)
	}
	return nil
}
