package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
)

var (
	moduleChapter     string
	moduleDescription string
	moduleSourceFile  string
	moduleMoveAt      int
)

// NewModuleCommand creates the module command group
func NewModuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Add, rename, move, describe or remove modules",
		Long: `Manage the modules (pages) inside chapters.

A module can be referenced by its id, by "<chapter>/<module>" where either
part is a 1-based position or a name, or by a bare name that is unique in
the project. The .swift suffix may be omitted.

Examples:
  # Append "NewFile{k}.swift" to the last chapter
  pgstudio module add

  # Add a named module to a specific chapter, with source from a file
  pgstudio module add Pizza.swift --chapter Fractions --source-file pizza.swift

  # Move the first module of chapter 1 to the top of chapter 2
  pgstudio module move 1/1 2 --at 0

  # Set the guidance text shown for a module
  pgstudio module describe Fractions/Pizza "Cut the pizza into equal slices"`,
	}

	cmd.AddCommand(newModuleAddCommand())
	cmd.AddCommand(newModuleRenameCommand())
	cmd.AddCommand(newModuleMoveCommand())
	cmd.AddCommand(newModuleDescribeCommand())
	cmd.AddCommand(newModuleRemoveCommand())

	return cmd
}

func newModuleAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Append a module",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cli.ValidateModuleName(args[0]); err != nil {
					return err
				}
			}

			var source string
			if moduleSourceFile != "" {
				if err := cli.ValidateFilePath(moduleSourceFile); err != nil {
					return err
				}
				data, err := os.ReadFile(moduleSourceFile)
				if err != nil {
					return fmt.Errorf("failed to read source file: %w", err)
				}
				source = string(data)
			}

			ctx, err := loadContext()
			if err != nil {
				return err
			}
			editor := ctx.Editor

			if moduleChapter != "" {
				ci, err := cli.NewItemResolver(editor).FindChapter(moduleChapter)
				if err != nil {
					return err
				}
				editor.State().Select(editor.Project().Chapters[ci].ID)
			}

			id := editor.AddModule().ID
			if len(args) == 1 {
				name := args[0]
				if !strings.HasSuffix(name, ".swift") {
					name += ".swift"
				}
				editor.RenameModule(id, name)
			}
			if moduleDescription != "" {
				editor.SetModuleDescription(id, moduleDescription)
			}
			if moduleSourceFile != "" {
				editor.SetModuleSource(id, source)
			}

			if err := ctx.Save(); err != nil {
				return err
			}
			m, _ := editor.Module(id)
			ci, _, _ := editor.FindModule(id)
			cli.PrintSuccess("Added module %s to chapter '%s'", m.Name, editor.Project().Chapters[ci].Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&moduleChapter, "chapter", "c", "", "Target chapter (default: last chapter)")
	cmd.Flags().StringVarP(&moduleDescription, "description", "d", "", "Module description")
	cmd.Flags().StringVar(&moduleSourceFile, "source-file", "", "Read the module source from a file")

	return cmd
}

func newModuleRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <module> <name>",
		Short:   "Rename a module",
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateModuleName(args[1]); err != nil {
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

			m, _ := ctx.Editor.Module(id)
			old := m.Name
			ctx.Editor.RenameModule(id, args[1])

			if err := ctx.Save(); err != nil {
				return err
			}
			cli.PrintSuccess("Renamed module '%s' to '%s'", old, args[1])
			return nil
		},
	}
}

func newModuleMoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <module> <chapter>",
		Short: "Move a module to another chapter or position",
		Long: `Move a module into a chapter. Without --at the module is appended;
with --at it is inserted at that 0-based position, clamped to the
chapter's length.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext()
			if err != nil {
				return err
			}
			resolver := cli.NewItemResolver(ctx.Editor)

			id, err := resolver.FindModule(args[0])
			if err != nil {
				return err
			}
			ci, err := resolver.FindChapter(args[1])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("at") {
				ctx.Editor.MoveModuleAt(id, ci, moduleMoveAt)
			} else {
				ctx.Editor.MoveModule(id, ci)
			}

			if err := ctx.Save(); err != nil {
				return err
			}
			m, _ := ctx.Editor.Module(id)
			_, mi, _ := ctx.Editor.FindModule(id)
			cli.PrintSuccess("Moved %s to chapter '%s' at position %d", m.Name, ctx.Editor.Project().Chapters[ci].Name, mi+1)
			return nil
		},
	}

	cmd.Flags().IntVar(&moduleMoveAt, "at", 0, "Insert position within the target chapter (0-based)")

	return cmd
}

func newModuleDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "describe <module> <description>",
		Short:   "Set a module's description",
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext()
			if err != nil {
				return err
			}
			id, err := cli.NewItemResolver(ctx.Editor).FindModule(args[0])
			if err != nil {
				return err
			}

			ctx.Editor.SetModuleDescription(id, args[1])
			if err := ctx.Save(); err != nil {
				return err
			}
			cli.PrintSuccess("Updated description")
			return nil
		},
	}
}

func newModuleRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <module>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a module",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext()
			if err != nil {
				return err
			}
			id, err := cli.NewItemResolver(ctx.Editor).FindModule(args[0])
			if err != nil {
				return err
			}
			m, _ := ctx.Editor.Module(id)
			name := m.Name

			confirmed, err := cli.Confirm(fmt.Sprintf("Remove module '%s'?", name), false)
			if err != nil {
				return err
			}
			if !confirmed {
				cli.PrintInfo("Removal cancelled")
				return nil
			}

			ctx.Editor.RemoveModule(id)
			if err := ctx.Save(); err != nil {
				return err
			}
			cli.PrintSuccess("Removed module: %s", name)
			return nil
		},
	}
}
