package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/files"
)

var (
	restoreDiscard bool
)

func newArchiveRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <archived>",
		Short: "Replace the project with an archived one",
		Long: `Replace the working project with an archived project. The current
project is archived first unless --discard is given.

Examples:
  # Restore the most recent archived project
  pgstudio archive restore 1

  # Restore without confirmation
  pgstudio archive restore 2 -y`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE:    runRestore,
	}

	cmd.Flags().BoolVar(&restoreDiscard, "discard", false, "Do not archive the current project first")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	file, err := resolveArchived(args[0])
	if err != nil {
		return err
	}
	restored, err := files.ReadArchivedProject(file)
	if err != nil {
		return err
	}

	ctx, err := loadContext()
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Replace '%s' with archived '%s' (%d module(s))?",
		ctx.Editor.Project().Name, restored.Name, restored.ModuleCount())
	confirmed, err := cli.Confirm(prompt, false)
	if err != nil {
		return err
	}
	if !confirmed {
		cli.PrintInfo("Restore cancelled")
		return nil
	}

	if !restoreDiscard {
		name, err := files.ArchiveProject(ctx.Editor.Snapshot(), time.Now())
		if err != nil {
			return fmt.Errorf("failed to archive current project: %w", err)
		}
		cli.PrintInfo("Current project archived as %s", name)
	}

	ctx.Editor.Replace(restored)
	if err := ctx.Save(); err != nil {
		return fmt.Errorf("failed to restore project: %w", err)
	}

	cli.PrintSuccess("Restored project: %s", restored.Name)
	return nil
}
