package composer

import (
	"fmt"
	"strings"

	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// ComposePage returns the Contents.swift text for a module. A module whose
// content has no steps is written verbatim; steps are prepended as a
// playground markup block so they render as prose above the code.
func ComposePage(m models.Module) string {
	if m.Content == nil {
		return ""
	}
	if len(m.Content.Steps) == 0 {
		return m.Content.Source
	}

	var output strings.Builder
	output.WriteString("/*:\n")
	if title := strings.TrimSpace(m.Content.Title); title != "" {
		output.WriteString(fmt.Sprintf(" # %s\n\n", title))
	}
	for i, step := range m.Content.Steps {
		output.WriteString(fmt.Sprintf(" %d. **%s**", i+1, strings.TrimSpace(step.Title)))
		if body := strings.TrimSpace(step.Body); body != "" {
			output.WriteString(": " + body)
		}
		output.WriteString("\n")
	}
	output.WriteString("*/\n")
	output.WriteString(m.Content.Source)
	return output.String()
}

// ComposeOutline renders the whole project as markdown: one section per
// chapter and one subsection per module with its source as a code block.
func ComposeOutline(p *models.Project) (string, error) {
	if p == nil {
		return "", fmt.Errorf("cannot compose outline: nil project provided")
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# %s\n\n", p.Name))
	if d := strings.TrimSpace(p.Description); d != "" {
		output.WriteString(d + "\n\n")
	}

	for _, ch := range p.Chapters {
		output.WriteString(fmt.Sprintf("## %s\n\n", ch.Name))
		if d := strings.TrimSpace(ch.Description); d != "" {
			output.WriteString(d + "\n\n")
		}
		for _, m := range ch.Modules {
			output.WriteString(ComposeModule(m))
		}
	}

	return output.String(), nil
}

// ComposeModule renders one module as a markdown subsection.
func ComposeModule(m models.Module) string {
	var output strings.Builder
	output.WriteString(fmt.Sprintf("### %s\n\n", m.Name))
	if d := strings.TrimSpace(m.Description); d != "" {
		output.WriteString(d + "\n\n")
	}
	if m.Content == nil {
		return output.String()
	}
	for i, step := range m.Content.Steps {
		output.WriteString(fmt.Sprintf("%d. **%s** %s\n", i+1, step.Title, step.Body))
		if i == len(m.Content.Steps)-1 {
			output.WriteString("\n")
		}
	}
	if src := m.Content.Source; src != "" {
		output.WriteString("```swift\n")
		output.WriteString(src)
		if !strings.HasSuffix(src, "\n") {
			output.WriteString("\n")
		}
		output.WriteString("```\n\n")
	}
	return output.String()
}

// WriteOutline writes a composed outline to outputPath, or to the default
// output file when outputPath is empty.
func WriteOutline(content string, outputPath string) error {
	if outputPath == "" {
		outputPath = files.DefaultOutputFile
	}

	if err := files.WriteFile(outputPath, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return nil
}
