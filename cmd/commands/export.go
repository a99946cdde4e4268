package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/internal/logger"
	"github.com/playgroundstudio/pgstudio/pkg/book"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

var (
	exportDir      string
	exportTemplate bool
	exportSample   bool
	exportSave     string
	exportPack     string
	exportPrune    bool
	exportWatch    bool
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the project as a .playgroundbook",
		Long: `Write every chapter and module of the project into a Playground Book
package.

By default a fresh package named after the project is created in the
output directory. With --template the bundled template archive is
extracted into the workspace first and the project is written into it.

Examples:
  # Export into ./<Project>.playgroundbook
  pgstudio export

  # Export into a copy of the bundled template, then save it elsewhere
  pgstudio export --template --save ~/Desktop/Fractions.playgroundbook

  # Remove pages that no longer exist in the project
  pgstudio export --prune

  # Also write a zip of the package
  pgstudio export --pack Fractions.zip

  # Re-export whenever the project changes
  pgstudio export --watch`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runExport,
	}

	cmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default: export.output_dir)")
	cmd.Flags().BoolVarP(&exportTemplate, "template", "t", false, "Start from the bundled template archive")
	cmd.Flags().BoolVar(&exportSample, "sample", false, "Use the sample template archive (implies --template)")
	cmd.Flags().StringVar(&exportSave, "save", "", "Copy the finished package to this .playgroundbook path")
	cmd.Flags().StringVar(&exportPack, "pack", "", "Also write a zip of the package to this path")
	cmd.Flags().BoolVar(&exportPrune, "prune", false, "Remove chapters and pages not in the project")
	cmd.Flags().BoolVarP(&exportWatch, "watch", "w", false, "Re-export when the project file changes")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportSave != "" {
		if err := cli.ValidatePackagePath(exportSave); err != nil {
			return err
		}
	}

	ctx, err := loadContext()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	root, err := preparePackage(runCtx, ctx)
	if err != nil {
		return err
	}

	if err := exportOnce(runCtx, ctx, root, ctx.Editor.Snapshot()); err != nil {
		return err
	}
	if !exportWatch {
		return nil
	}

	cli.PrintInfo("Watching %s for changes (Ctrl+C to stop)...", files.ProjectDir)
	err = watchProject(runCtx, filepath.Join(files.ProjectDir, files.ProjectFile), 200*time.Millisecond, func() error {
		p, err := files.ReadProject()
		if err != nil {
			cli.PrintWarning("Skipping export: %v", err)
			return nil
		}
		if err := exportOnce(runCtx, ctx, root, p); err != nil {
			cli.PrintError("%v", err)
		}
		return nil
	})
	if runCtx.Err() != nil {
		return nil
	}
	return err
}

// preparePackage returns the package root to export into.
func preparePackage(ctx context.Context, c *cli.CommandContext) (string, error) {
	settings := c.LoadSettingsWithDefault()
	project := c.Editor.Project()

	if exportTemplate || exportSample {
		manager, err := c.BookManager()
		if err != nil {
			return "", err
		}
		archive := settings.Template.Archive
		if exportSample {
			archive = book.SampleArchive
		}
		folder, err := book.SafeComponent(project.Name)
		if err != nil {
			folder = book.DefaultCopyFolder
		}
		logger.Section("Template")
		root, err := manager.DuplicateTemplate(ctx, archive, folder, true)
		if err != nil {
			return "", fmt.Errorf("failed to prepare template: %w", err)
		}
		cli.PrintInfo("Extracted %s to %s", archive, root)
		return root, nil
	}

	dir := exportDir
	if dir == "" {
		dir = settings.Export.OutputDir
	}
	return book.NewPackage(dir, project.Name)
}

func exportOnce(ctx context.Context, c *cli.CommandContext, root string, p *models.Project) error {
	settings := c.LoadSettingsWithDefault()
	start := time.Now()

	logger.Section("Export")
	err := book.Export(ctx, root, p, book.ExportOptions{
		Parallelism: settings.Export.Parallelism,
		Prune:       exportPrune,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	cli.PrintSuccess("Exported %d chapter(s), %d page(s) to %s in %s",
		len(p.Chapters), p.ModuleCount(), root, time.Since(start).Round(time.Millisecond))

	if exportSave != "" {
		if err := book.Save(ctx, root, exportSave); err != nil {
			return fmt.Errorf("save failed: %w", err)
		}
		cli.PrintSuccess("Saved to %s", exportSave)
	}

	if exportPack != "" {
		if err := book.Pack(ctx, root, exportPack); err != nil {
			return fmt.Errorf("pack failed: %w", err)
		}
		size := int64(0)
		if info, err := os.Stat(exportPack); err == nil {
			size = info.Size()
		}
		cli.PrintSuccess("Packed %s (%s)", exportPack, cli.FormatBytes(size))
	}
	return nil
}
