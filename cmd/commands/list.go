package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// ListResult represents the output structure for list command
type ListResult struct {
	Project  string        `json:"project" yaml:"project"`
	Chapters []ListChapter `json:"chapters" yaml:"chapters"`
	Count    int           `json:"count" yaml:"count"`
}

// ListChapter represents a single chapter in the list
type ListChapter struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Icon     string       `json:"icon" yaml:"icon"`
	Expanded bool         `json:"expanded" yaml:"expanded"`
	Modules  []ListModule `json:"modules" yaml:"modules"`
}

// ListModule represents a single module in the list
type ListModule struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       int    `json:"steps" yaml:"steps"`
}

var (
	listShowIDs bool
	listSidebar bool
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List chapters and modules",
		Long: `List the chapters of the project and the modules inside them.

Examples:
  # Show the tree
  pgstudio list

  # Include node ids
  pgstudio list --ids

  # Machine-readable output
  pgstudio list -o json

  # Navigation tree (folders and pages) as YAML
  pgstudio list --sidebar -o yaml`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runList,
	}

	cmd.Flags().BoolVar(&listShowIDs, "ids", false, "Show node ids")
	cmd.Flags().BoolVar(&listSidebar, "sidebar", false, "Print the sidebar navigation tree (json unless -o yaml)")
	addOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	p := ctx.Editor.Project()
	if listSidebar {
		if format == "text" {
			format = "json"
		}
		return cli.OutputResults(cmd.OutOrStdout(), format, models.SidebarFromProject(p))
	}
	result := buildListResult(p, ctx.Editor.State().IsExpanded)

	if format != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), format, result)
	}
	printListTable(cmd, result)
	return nil
}

func buildListResult(p *models.Project, expanded func(models.ID) bool) ListResult {
	result := ListResult{Project: p.Name, Chapters: []ListChapter{}}
	for _, ch := range p.Chapters {
		lc := ListChapter{
			ID:       ch.ID.String(),
			Name:     ch.Name,
			Icon:     ch.IconName,
			Expanded: expanded(ch.ID),
			Modules:  []ListModule{},
		}
		for _, m := range ch.Modules {
			steps := 0
			if m.Content != nil {
				steps = len(m.Content.Steps)
			}
			lc.Modules = append(lc.Modules, ListModule{
				ID:          m.ID.String(),
				Name:        m.Name,
				Description: m.Description,
				Steps:       steps,
			})
		}
		result.Chapters = append(result.Chapters, lc)
		result.Count += len(lc.Modules)
	}
	return result
}

func printListTable(cmd *cobra.Command, result ListResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d chapter(s), %d module(s))\n\n", result.Project, len(result.Chapters), result.Count)

	if len(result.Chapters) == 0 {
		fmt.Fprintln(out, "No chapters yet. Run 'pgstudio chapter add' to create one.")
		return
	}

	table := cli.NewTableFormatter(out)
	if listShowIDs {
		table.Header("#", "NAME", "STEPS", "DESCRIPTION", "ID")
	} else {
		table.Header("#", "NAME", "STEPS", "DESCRIPTION")
	}
	for ci, ch := range result.Chapters {
		marker := "▸"
		if ch.Expanded {
			marker = "▾"
		}
		row := []string{fmt.Sprintf("%d", ci+1), marker + " " + ch.Name, "", ""}
		if listShowIDs {
			row = append(row, ch.ID)
		}
		table.Row(row...)

		for mi, m := range ch.Modules {
			row := []string{
				fmt.Sprintf("%d/%d", ci+1, mi+1),
				"    " + m.Name,
				fmt.Sprintf("%d", m.Steps),
				cli.TruncateString(m.Description, 40),
			}
			if listShowIDs {
				row = append(row, m.ID)
			}
			table.Row(row...)
		}
	}
	table.Flush()
}
