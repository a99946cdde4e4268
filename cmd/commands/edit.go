package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
)

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <module>",
		Short: "Edit a module's source in your editor",
		Long: `Open a module's Swift source in your editor ($EDITOR, or editor.command
from settings). The project is updated when the editor exits.

Examples:
  # Edit a module by name
  pgstudio edit Pizza

  # Edit a module in a specific chapter
  pgstudio edit Fractions/Pizza

  # Edit with specific editor
  EDITOR=vim pgstudio edit 1/2`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runEdit,
	}

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	id, err := cli.NewItemResolver(ctx.Editor).FindModule(args[0])
	if err != nil {
		return err
	}
	m, _ := ctx.Editor.Module(id)
	original := m.Source()

	launcher := cli.NewEditorLauncher(ctx.LoadSettingsWithDefault().Editor.Command)
	cli.PrintInfo("Opening %s in editor...", m.Name)
	edited, err := launcher.EditText("pgstudio-*.swift", original)
	if err != nil {
		return err
	}

	if edited == original || strings.TrimSpace(edited) == strings.TrimSpace(original) {
		cli.PrintInfo("No changes")
		return nil
	}

	ctx.Editor.SetModuleSource(id, edited)
	if err := ctx.Save(); err != nil {
		return err
	}
	cli.PrintSuccess("Module source updated")
	return nil
}
