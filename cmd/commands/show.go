package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

var (
	showMetadata bool
	showRaw      bool
)

// ShowResult is the structured form of a shown module
type ShowResult struct {
	Chapter string         `json:"chapter" yaml:"chapter"`
	Module  *models.Module `json:"module" yaml:"module"`
	Page    string         `json:"page" yaml:"page"`
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <module>",
		Short: "Display the page a module exports to",
		Long: `Display the Contents.swift text a module exports to. Steps are rendered
as a playground markup block above the source.

Examples:
  # Show a module's page
  pgstudio show Fractions/Pizza

  # Show with name, chapter and description
  pgstudio show Pizza --metadata

  # Show only the raw source
  pgstudio show Pizza --raw

  # Output as JSON
  pgstudio show Pizza -o json`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runShow,
	}

	cmd.Flags().BoolVarP(&showMetadata, "metadata", "m", false, "Show module metadata")
	cmd.Flags().BoolVar(&showRaw, "raw", false, "Show the source without step markup")
	addOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	id, err := cli.NewItemResolver(ctx.Editor).FindModule(args[0])
	if err != nil {
		return err
	}

	ci, _, _ := ctx.Editor.FindModule(id)
	m, _ := ctx.Editor.Module(id)
	chapter := ctx.Editor.Project().Chapters[ci].Name

	page := composer.ComposePage(*m)
	if showRaw {
		page = m.Source()
	}

	if format != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), format, ShowResult{
			Chapter: chapter,
			Module:  m,
			Page:    page,
		})
	}

	out := cmd.OutOrStdout()
	if showMetadata {
		settings := ctx.LoadSettingsWithDefault()
		fmt.Fprintf(out, "Module: %s\n", m.Name)
		fmt.Fprintf(out, "Chapter: %s\n", chapter)
		fmt.Fprintf(out, "ID: %s\n", m.ID)
		if m.Description != "" {
			fmt.Fprintln(out, "Description:")
			fmt.Fprintln(out, cli.WrapIndented(m.Description, settings.UI.WrapWidth, 2))
		}
		fmt.Fprintln(out, "---")
	}
	fmt.Fprint(out, page)
	return nil
}
