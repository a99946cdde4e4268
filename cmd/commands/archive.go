package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/files"
)

// ArchiveListItem represents a single archived project in list output
type ArchiveListItem struct {
	Index    int       `json:"index" yaml:"index"`
	File     string    `json:"file" yaml:"file"`
	Name     string    `json:"name" yaml:"name"`
	Modules  int       `json:"modules" yaml:"modules"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

// NewArchiveCommand creates the archive command group
func NewArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage archived projects",
		Long: `Every time a generator result or a restore replaces the project tree,
the project that was replaced is archived in .pgstudio/archive.

An archived project is referenced by its position in 'pgstudio archive
list' (newest first) or by its file name.

Examples:
  # Archive the current project
  pgstudio archive save

  # Show archived projects
  pgstudio archive list

  # Bring back the most recent one
  pgstudio archive restore 1

  # Permanently delete an archived project
  pgstudio archive delete fractions-20260101T120000.000Z.yaml`,
	}

	cmd.AddCommand(newArchiveSaveCommand())
	cmd.AddCommand(newArchiveListCommand())
	cmd.AddCommand(newArchiveRestoreCommand())
	cmd.AddCommand(newArchiveDeleteCommand())

	return cmd
}

func newArchiveSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "save",
		Short:   "Archive a copy of the current project",
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext()
			if err != nil {
				return err
			}
			name, err := files.ArchiveProject(ctx.Editor.Snapshot(), time.Now())
			if err != nil {
				return err
			}
			cli.PrintSuccess("Archived project as %s", name)
			return nil
		},
	}
}

func newArchiveListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List archived projects",
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			archived, err := files.ListArchivedProjects()
			if err != nil {
				return err
			}

			items := make([]ArchiveListItem, 0, len(archived))
			for i, a := range archived {
				items = append(items, ArchiveListItem{
					Index:    i + 1,
					File:     a.Path,
					Name:     a.Name,
					Modules:  a.Modules,
					Modified: a.Modified,
				})
			}

			if format != "text" {
				return cli.OutputResults(cmd.OutOrStdout(), format, items)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No archived projects.")
				return nil
			}
			table := cli.NewTableFormatter(out)
			table.Header("#", "NAME", "MODULES", "ARCHIVED", "FILE")
			for _, item := range items {
				table.Row(
					strconv.Itoa(item.Index),
					item.Name,
					strconv.Itoa(item.Modules),
					item.Modified.Local().Format("2006-01-02 15:04"),
					item.File,
				)
			}
			table.Flush()
			return nil
		},
	}

	addOutputFlag(cmd)
	return cmd
}

func newArchiveDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <archived>",
		Aliases: []string{"rm"},
		Short:   "Permanently delete an archived project",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveArchived(args[0])
			if err != nil {
				return err
			}

			prompt := fmt.Sprintf("Permanently delete archived project '%s'? This cannot be undone.", file)
			confirmed, err := cli.Confirm(prompt, false)
			if err != nil {
				return err
			}
			if !confirmed {
				cli.PrintInfo("Deletion cancelled")
				return nil
			}

			if err := files.DeleteArchivedProject(file); err != nil {
				return err
			}
			cli.PrintSuccess("Deleted archived project: %s", file)
			return nil
		},
	}
}

// resolveArchived maps a list position or file name to an archive file name.
func resolveArchived(ref string) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}

	archived, err := files.ListArchivedProjects()
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(archived) {
		return "", fmt.Errorf("archived project %d not found\n\nUse 'pgstudio archive list' to see available archived projects", n)
	}
	return archived[n-1].Path, nil
}
