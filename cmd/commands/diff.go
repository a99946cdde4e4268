package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/book"
)

var (
	diffAll bool
)

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [package]",
		Short: "Show what an export would change in a package",
		Long: `Compare the page text the project would export against the
Contents.swift files of an existing package.

The package argument may be a .playgroundbook directory or a directory
containing one. It defaults to the package export would create.

Examples:
  # Diff against ./<Project>.playgroundbook
  pgstudio diff

  # Diff against a saved copy, listing unchanged pages too
  pgstudio diff ~/Desktop/Fractions.playgroundbook --all

  # Summary as JSON
  pgstudio diff -o json`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    runDiff,
	}

	cmd.Flags().BoolVarP(&diffAll, "all", "a", false, "Include unchanged pages")
	addOutputFlag(cmd)

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	project := ctx.Editor.Project()

	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		name, err := book.SafeComponent(project.Name)
		if err != nil {
			return err
		}
		dir = filepath.Join(ctx.LoadSettingsWithDefault().Export.OutputDir, name+book.BookExt)
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("package not found: %s", dir)
	}
	root, err := book.LocatePackageRoot(dir)
	if err != nil {
		return err
	}

	diffs, err := book.Diff(root, project)
	if err != nil {
		return err
	}

	shown := diffs[:0:0]
	changed := 0
	for _, d := range diffs {
		if d.Status != book.PageUnchanged {
			changed++
		}
		if diffAll || d.Status != book.PageUnchanged {
			shown = append(shown, d)
		}
	}

	if format != "text" {
		return cli.OutputResults(cmd.OutOrStdout(), format, shown)
	}

	out := cmd.OutOrStdout()
	for _, d := range shown {
		fmt.Fprintf(out, "%-9s %s/%s\n", d.Status, d.Chapter, d.Page)
		if d.Patch != "" {
			fmt.Fprint(out, d.Patch)
		}
	}
	fmt.Fprintf(out, "\n%d of %d page(s) would change\n", changed, len(diffs))
	return nil
}
