package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/composer"
	"github.com/playgroundstudio/pgstudio/pkg/generator"
)

var (
	clipboardOutline bool
	clipboardRaw     bool
)

// NewClipboardCommand creates the clipboard command
func NewClipboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipboard [module]",
		Short: "Copy a module's page or the book outline to the clipboard",
		Long: `Copy the Contents.swift text of a module, or the markdown outline of the
whole project, to the system clipboard.

Examples:
  # Copy a page, ready to paste into Swift Playgrounds
  pgstudio clipboard Fractions/Pizza

  # Copy only the source, without step markup
  pgstudio clipboard Pizza --raw

  # Copy the outline of the whole book
  pgstudio clipboard --outline`,
		Aliases: []string{"clip", "copy"},
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    runClipboard,
	}

	cmd.Flags().BoolVar(&clipboardOutline, "outline", false, "Copy the book outline instead of a page")
	cmd.Flags().BoolVar(&clipboardRaw, "raw", false, "Copy the module source without step markup")

	return cmd
}

func runClipboard(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	var content, what string
	switch {
	case clipboardOutline:
		content, err = composer.ComposeOutline(ctx.Editor.Project())
		if err != nil {
			return fmt.Errorf("failed to compose outline: %w", err)
		}
		what = "Outline"

	case len(args) == 1:
		id, err := cli.NewItemResolver(ctx.Editor).FindModule(args[0])
		if err != nil {
			return err
		}
		m, _ := ctx.Editor.Module(id)
		content = composer.ComposePage(*m)
		if clipboardRaw {
			content = m.Source()
		}
		what = fmt.Sprintf("Page '%s'", m.Name)

	default:
		return fmt.Errorf("specify a module or --outline")
	}

	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	cli.PrintSuccess("%s copied to clipboard", what)
	cli.PrintInfo("Estimated tokens: %s", generator.FormatTokenCount(generator.EstimateTokens(content)))
	return nil
}
