package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// LoadProjectFile reads a project snapshot from an arbitrary file, such as
// one saved from a generator run. ".json" files use the JSON field names;
// everything else is read as YAML.
func LoadProjectFile(path string) (*models.Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var project models.Project
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &project)
	} else {
		err = yaml.Unmarshal(content, &project)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}

	project.EnsureIDs()
	return &project, nil
}
