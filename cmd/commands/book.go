package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/book"
)

var (
	bookSample    bool
	bookDest      string
	bookFolder    string
	bookReplace   bool
	bookPageCode  string
	bookPageFile  string
	bookTextFile  string
	bookSourceName string
)

// NewBookCommand creates the book command group. Its subcommands work on
// any .playgroundbook package and do not need a project.
func NewBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Work directly with .playgroundbook packages",
		Long: `Create, extract, edit and package Playground Book packages.

A <package> argument may be the .playgroundbook directory itself or a
directory that contains one, directly or one level down.

Examples:
  # Extract the bundled template into the workspace
  pgstudio book template --folder Fractions

  # Create an empty package
  pgstudio book new ./out Fractions

  # Add a page and a shared source file
  pgstudio book add-page ./out "Chapter 1" Intro --code 'print("hi")'
  pgstudio book add-source ./out Helpers.swift

  # Copy and zip a package
  pgstudio book save ./out ~/Desktop/Fractions.playgroundbook
  pgstudio book pack ./out Fractions.zip`,
	}

	cmd.AddCommand(newBookNewCommand())
	cmd.AddCommand(newBookTemplateCommand())
	cmd.AddCommand(newBookLocateCommand())
	cmd.AddCommand(newBookAddPageCommand())
	cmd.AddCommand(newBookWritePageCommand())
	cmd.AddCommand(newBookAddSourceCommand())
	cmd.AddCommand(newBookAddResourceCommand())
	cmd.AddCommand(newBookSaveCommand())
	cmd.AddCommand(newBookPackCommand())

	return cmd
}

// openPackage builds a manager from settings and makes the package under
// dir its current root.
func openPackage(dir string) (*book.Manager, string, error) {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return nil, "", err
	}
	manager, err := ctx.BookManager()
	if err != nil {
		return nil, "", err
	}
	root, err := manager.LocatePackageRoot(dir)
	if err != nil {
		return nil, "", err
	}
	return manager, root, nil
}

func newBookNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <dir> <name>",
		Short: "Create an empty package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := book.NewPackage(args[0], args[1])
			if err != nil {
				return err
			}
			cli.PrintSuccess("Created %s", root)
			return nil
		},
	}
}

func newBookTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Extract the bundled template archive",
		Long: `Extract Template.zip (or TemplateSample.zip with --sample) from the
resources directory. By default it is extracted into a folder of the
workspace directory; --dest extracts it anywhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := cli.NewCommandContext()
			if err != nil {
				return err
			}
			manager, err := ctx.BookManager()
			if err != nil {
				return err
			}

			archive := ctx.LoadSettingsWithDefault().Template.Archive
			if bookSample {
				archive = book.SampleArchive
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var root string
			if bookDest != "" {
				root, err = manager.ExtractTemplate(runCtx, archive, bookDest, bookReplace)
			} else {
				root, err = manager.DuplicateTemplate(runCtx, archive, bookFolder, bookReplace)
			}
			if err != nil {
				return err
			}

			cli.PrintSuccess("Extracted %s", archive)
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&bookSample, "sample", false, "Use the sample template archive")
	cmd.Flags().StringVar(&bookDest, "dest", "", "Extract into this directory instead of the workspace")
	cmd.Flags().StringVar(&bookFolder, "folder", book.DefaultCopyFolder, "Workspace folder name")
	cmd.Flags().BoolVar(&bookReplace, "replace", false, "Replace an existing folder")

	return cmd
}

func newBookLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <dir>",
		Short: "Print the package root found in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := book.LocatePackageRoot(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func newBookAddPageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-page <package> <chapter> <page>",
		Short: "Add a page with a manifest and initial code",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readTextFlag(bookPageCode, bookPageFile, book.DefaultPageCode)
			if err != nil {
				return err
			}
			manager, _, err := openPackage(args[0])
			if err != nil {
				return err
			}
			if err := manager.AddPage(args[1], args[2], code); err != nil {
				return err
			}
			cli.PrintSuccess("Added page %s/%s", args[1], args[2])
			return nil
		},
	}

	cmd.Flags().StringVar(&bookPageCode, "code", "", "Initial Contents.swift text")
	cmd.Flags().StringVar(&bookPageFile, "file", "", "Read the initial code from a file")

	return cmd
}

func newBookWritePageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-page <package> <chapter> <page>",
		Short: "Replace a page's Contents.swift",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bookTextFile == "" {
				return fmt.Errorf("--file is required")
			}
			text, err := readTextFlag("", bookTextFile, "")
			if err != nil {
				return err
			}
			manager, _, err := openPackage(args[0])
			if err != nil {
				return err
			}
			if err := manager.WritePageContents(args[1], args[2], text); err != nil {
				return err
			}
			cli.PrintSuccess("Wrote %s/%s", args[1], args[2])
			return nil
		},
	}

	cmd.Flags().StringVar(&bookTextFile, "file", "", "File holding the new page text")

	return cmd
}

func newBookAddSourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-source <package> <file.swift>",
		Short: "Copy a Swift file into the shared sources",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateFilePath(args[1]); err != nil {
				return err
			}
			code, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			name := bookSourceName
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[1]), book.SourceExt)
			}

			manager, _, err := openPackage(args[0])
			if err != nil {
				return err
			}
			if err := manager.AddSharedSource(name, string(code)); err != nil {
				return err
			}
			cli.PrintSuccess("Added shared source %s%s", name, book.SourceExt)
			return nil
		},
	}

	cmd.Flags().StringVar(&bookSourceName, "name", "", "File name in the package, without .swift")

	return cmd
}

func newBookAddResourceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-resource <package> <file>",
		Short: "Copy a file into the shared resources",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateFilePath(args[1]); err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}

			manager, _, err := openPackage(args[0])
			if err != nil {
				return err
			}
			name := filepath.Base(args[1])
			if err := manager.AddSharedResource(name, data); err != nil {
				return err
			}
			cli.PrintSuccess("Added shared resource %s (%s)", name, cli.FormatBytes(int64(len(data))))
			return nil
		},
	}
}

func newBookSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <package> <destination>",
		Short: "Copy a package to a destination, replacing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidatePackagePath(args[1]); err != nil {
				return err
			}
			root, err := book.LocatePackageRoot(args[0])
			if err != nil {
				return err
			}
			if err := book.Save(cmd.Context(), root, args[1]); err != nil {
				return err
			}
			cli.PrintSuccess("Saved to %s", args[1])
			return nil
		},
	}
}

func newBookPackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <package> <zip>",
		Short: "Write a zip archive of a package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := book.LocatePackageRoot(args[0])
			if err != nil {
				return err
			}
			if err := book.Pack(cmd.Context(), root, args[1]); err != nil {
				return err
			}
			cli.PrintSuccess("Packed %s", args[1])
			return nil
		},
	}
}

// readTextFlag returns inline text, else the contents of path, else def.
func readTextFlag(inline, path, def string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
