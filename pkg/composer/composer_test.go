package composer

import (
	"os"
	"strings"
	"testing"

	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

func TestComposePage(t *testing.T) {
	tests := []struct {
		name   string
		module models.Module
		want   string
	}{
		{
			name:   "no content",
			module: models.Module{Name: "Empty.swift"},
			want:   "",
		},
		{
			name:   "source without steps is verbatim",
			module: models.Module{Name: "P", Content: &models.FileContent{Source: "hello"}},
			want:   "hello",
		},
		{
			name: "steps become a markup block",
			module: models.Module{Name: "P", Content: &models.FileContent{
				Title:  "Slice",
				Source: "let x = 1\n",
				Steps: []models.FileStep{
					{Title: "Predict", Body: "Guess first."},
					{Title: "Run"},
				},
			}},
			want: "/*:\n # Slice\n\n 1. **Predict**: Guess first.\n 2. **Run**\n*/\nlet x = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposePage(tt.module); got != tt.want {
				t.Errorf("ComposePage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeOutline(t *testing.T) {
	p := models.SampleProject()

	output, err := ComposeOutline(p)
	if err != nil {
		t.Fatalf("ComposeOutline failed: %v", err)
	}

	expectedElements := []string{
		"# The Fair Share Slicer",
		"## Pages",
		"### The Fair Share Slicer",
		"### The Shape Splitter Challenge",
		"```swift\nimport SpriteKit",
		"1. **Predict**",
	}
	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output missing expected element: %s", expected)
		}
	}

	first := strings.Index(output, "### The Fair Share Slicer")
	second := strings.Index(output, "### The Shape Splitter Challenge")
	third := strings.Index(output, "### The Fraction Size Sorter")
	if first > second || second > third {
		t.Error("Modules not in tree order")
	}
}

func TestComposeOutlineErrors(t *testing.T) {
	if _, err := ComposeOutline(nil); err == nil {
		t.Error("Expected error for nil project")
	}
}

func TestRenderWalkthrough(t *testing.T) {
	output, err := RenderWalkthrough(models.SampleWalkthrough())
	if err != nil {
		t.Fatalf("RenderWalkthrough failed: %v", err)
	}
	if !strings.Contains(output, "[Start Walkthrough]") {
		t.Error("Description card button missing")
	}
	if !strings.Contains(output, "- **Slice fairly**: Cut a pizza into equal slices. [Start slicing → FirstChapter]") {
		t.Errorf("Action card not rendered as expected:\n%s", output)
	}

	bad := models.Walkthrough{Items: []models.WalkthroughItem{{Kind: models.KindActionGroup, Title: "broken"}}}
	if _, err := RenderWalkthrough(bad); err == nil {
		t.Error("Expected error for action group without cards payload")
	}
}

func TestWriteOutline(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	os.Chdir(tempDir)

	content := "# Test Outline"

	if err := WriteOutline(content, ""); err != nil {
		t.Fatalf("WriteOutline failed: %v", err)
	}
	data, err := os.ReadFile(files.DefaultOutputFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(data) != content {
		t.Error("Output file content doesn't match")
	}

	if err := WriteOutline(content, "custom-output.md"); err != nil {
		t.Fatalf("WriteOutline with custom path failed: %v", err)
	}
	if _, err := os.ReadFile("custom-output.md"); err != nil {
		t.Fatalf("Failed to read custom output file: %v", err)
	}
}
