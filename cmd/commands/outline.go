package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/files"
)

var (
	outlineFile   string
	outlineStdout bool
)

// NewOutlineCommand creates the outline command
func NewOutlineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Write a markdown outline of the book",
		Long: `Compose a markdown outline of every chapter and module, including each
module's source and steps, and write it to BOOK.md by default.

Examples:
  # Write BOOK.md in the output directory
  pgstudio outline

  # Write to a custom file
  pgstudio outline --file REVIEW.md

  # Print to stdout
  pgstudio outline --stdout`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runOutline,
	}

	cmd.Flags().StringVarP(&outlineFile, "file", "f", "", "Output file (default: BOOK.md)")
	cmd.Flags().BoolVar(&outlineStdout, "stdout", false, "Print the outline instead of writing a file")

	return cmd
}

func runOutline(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	content, err := composer.ComposeOutline(ctx.Editor.Project())
	if err != nil {
		return fmt.Errorf("failed to compose outline: %w", err)
	}

	if outlineStdout {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	outputPath := outlineFile
	if outputPath == "" {
		outputPath = filepath.Join(ctx.LoadSettingsWithDefault().Export.OutputDir, files.DefaultOutputFile)
	}
	if err := composer.WriteOutline(content, outputPath); err != nil {
		return err
	}

	cli.PrintSuccess("Outline written to: %s", outputPath)
	return nil
}
