package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// NewWalkthroughCommand creates the walkthrough command
func NewWalkthroughCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walkthrough",
		Short: "Show or edit the book's walkthrough cards",
		Long: `Show the walkthrough: description cards and groups of action cards that
introduce the book. Until one is written the sample walkthrough is shown.

Examples:
  # Render the walkthrough as markdown
  pgstudio walkthrough

  # Output as YAML
  pgstudio walkthrough -o yaml

  # Edit it in your editor
  pgstudio walkthrough edit`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runWalkthroughShow,
	}
	addOutputFlag(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:     "edit",
		Short:   "Edit the walkthrough as YAML",
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runWalkthroughEdit,
	})

	return cmd
}

func runWalkthroughShow(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	w, err := files.ReadWalkthrough()
	if err != nil {
		return err
	}

	if format != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), format, w)
	}
	rendered, err := composer.RenderWalkthrough(w)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

func runWalkthroughEdit(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	w, err := files.ReadWalkthrough()
	if err != nil {
		return err
	}
	original, err := yaml.Marshal(w)
	if err != nil {
		return err
	}

	launcher := cli.NewEditorLauncher(ctx.LoadSettingsWithDefault().Editor.Command)
	edited, err := launcher.EditText("walkthrough-*.yaml", string(original))
	if err != nil {
		return err
	}
	if edited == string(original) {
		cli.PrintInfo("No changes")
		return nil
	}

	var updated models.Walkthrough
	if err := yaml.Unmarshal([]byte(edited), &updated); err != nil {
		return fmt.Errorf("failed to parse walkthrough: %w", err)
	}
	if err := files.WriteWalkthrough(updated); err != nil {
		return err
	}
	cli.PrintSuccess("Walkthrough updated")
	return nil
}
