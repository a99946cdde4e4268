package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
)

var (
	chapterDescription string
	chapterIcon        string
)

// NewChapterCommand creates the chapter command group
func NewChapterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapter",
		Short: "Add, rename, remove or expand chapters",
		Long: `Manage the chapters of the project.

A chapter can be referenced by its 1-based position, its id, or its name.

Examples:
  # Append "New Chapter N"
  pgstudio chapter add

  # Append a named chapter
  pgstudio chapter add "Fractions" --description "Slicing pizza"

  # Rename the second chapter
  pgstudio chapter rename 2 "Comparing Fractions"

  # Remove a chapter and all of its modules
  pgstudio chapter remove Fractions`,
	}

	cmd.AddCommand(newChapterAddCommand())
	cmd.AddCommand(newChapterRenameCommand())
	cmd.AddCommand(newChapterRemoveCommand())
	cmd.AddCommand(newChapterToggleCommand())

	return cmd
}

func newChapterAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Append a chapter",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cli.ValidateChapterName(args[0]); err != nil {
					return err
				}
			}

			ctx, err := loadContext()
			if err != nil {
				return err
			}

			ch := ctx.Editor.AddChapter()
			id := ch.ID
			if len(args) == 1 {
				ctx.Editor.RenameChapter(id, args[0])
			}
			added, _ := ctx.Editor.FindChapter(id)
			if chapterDescription != "" {
				added.Description = chapterDescription
			}
			if chapterIcon != "" {
				added.IconName = chapterIcon
			}

			if err := ctx.Save(); err != nil {
				return err
			}
			cli.PrintSuccess("Added chapter: %s", added.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&chapterDescription, "description", "d", "", "Chapter description")
	cmd.Flags().StringVar(&chapterIcon, "icon", "", "SF Symbol name for the chapter icon")

	return cmd
}

func newChapterRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <chapter> <name>",
		Short:   "Rename a chapter",
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateChapterName(args[1]); err != nil {
				return err
			}

			ctx, err := loadContext()
			if err != nil {
				return err
			}
			ci, err := cli.NewItemResolver(ctx.Editor).FindChapter(args[0])
			if err != nil {
				return err
			}

			ch := ctx.Editor.Project().Chapters[ci]
			old := ch.Name
			ctx.Editor.RenameChapter(ch.ID, args[1])

			if err := ctx.Save(); err != nil {
				return err
			}
			cli.PrintSuccess("Renamed chapter '%s' to '%s'", old, args[1])
			return nil
		},
	}
}

func newChapterRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <chapter>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a chapter and its modules",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext()
			if err != nil {
				return err
			}
			ci, err := cli.NewItemResolver(ctx.Editor).FindChapter(args[0])
			if err != nil {
				return err
			}
			ch := ctx.Editor.Project().Chapters[ci]

			prompt := fmt.Sprintf("Remove chapter '%s' and its %d module(s)?", ch.Name, len(ch.Modules))
			confirmed, err := cli.Confirm(prompt, false)
			if err != nil {
				return err
			}
			if !confirmed {
				cli.PrintInfo("Removal cancelled")
				return nil
			}

			ctx.Editor.RemoveChapter(ch.ID)
			if err := ctx.Save(); err != nil {
				return err
			}
			cli.PrintSuccess("Removed chapter: %s", ch.Name)
			return nil
		},
	}
}

func newChapterToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <chapter>",
		Short:   "Expand or collapse a chapter in the sidebar",
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext()
			if err != nil {
				return err
			}
			ci, err := cli.NewItemResolver(ctx.Editor).FindChapter(args[0])
			if err != nil {
				return err
			}
			ch := ctx.Editor.Project().Chapters[ci]
			ctx.Editor.ToggleExpanded(ch.ID)

			if err := ctx.Save(); err != nil {
				return err
			}
			state := "collapsed"
			if ctx.Editor.State().IsExpanded(ch.ID) {
				state = "expanded"
			}
			cli.PrintSuccess("Chapter '%s' %s", ch.Name, state)
			return nil
		},
	}
}
