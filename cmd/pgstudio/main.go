package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/cmd/commands"
	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/internal/logger"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/models"
	"github.com/playgroundstudio/pgstudio/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	quiet       bool
	noColor     bool
	skipConfirm bool
	verbose     bool
	initSample  bool
	initFrom    string
)

var rootCmd = &cobra.Command{
	Use:   "pgstudio",
	Short: "Author Swift Playground Books from the terminal",
	Long: `pgstudio builds Swift Playground Books. A project is a tree of chapters
and modules stored as YAML in .pgstudio/; it can be edited in a TUI or with
subcommands, filled in by a content generator, and exported to a
.playgroundbook package.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.SetGlobalFlags(quiet, noColor, skipConfirm)
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !files.ProjectExists() {
			fmt.Fprintf(os.Stderr, "Error: No %s project found in the current directory.\n", files.ProjectDir)
			fmt.Fprintf(os.Stderr, "Please run 'pgstudio init' first to initialize a new project.\n")
			os.Exit(1)
		}

		ctx, err := cli.NewCommandContext()
		if err != nil {
			return err
		}
		editor, err := ctx.LoadEditor()
		if err != nil {
			return err
		}

		app := tui.NewApp(editor, ctx.LoadSettingsWithDefault(), ctx.GeneratorSession())
		p := tea.NewProgram(app, tea.WithAltScreen())
		app.SetProgram(p)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to start the terminal user interface: %v\n", err)
			fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
			os.Exit(1)
		}
		return app.Close()
	},
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialize a new pgstudio project",
	Long:  `Creates the .pgstudio folder structure and an empty project in the current directory`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine current directory: %w", err)
		}
		if files.ProjectExists() {
			return fmt.Errorf("a project already exists in %s", filepath.Join(cwd, files.ProjectDir))
		}

		cli.PrintInfo("Initializing pgstudio project in %s...", cwd)

		if err := files.InitProjectStructure(); err != nil {
			return fmt.Errorf("failed to initialize project structure: %w\nMake sure you have write permissions in the current directory", err)
		}

		var project *models.Project
		switch {
		case initFrom != "":
			project, err = files.LoadProjectFile(initFrom)
			if err != nil {
				return err
			}
		case initSample:
			project = models.SampleProject()
		case len(args) == 1:
			project = models.NewProject(args[0])
		default:
			project = models.NewProject(files.ExtractDisplayName(filepath.Base(cwd)))
		}
		if err := files.WriteProject(project); err != nil {
			return err
		}
		if err := files.WriteSettings(models.DefaultSettings()); err != nil {
			return err
		}

		cli.PrintSuccess("Created %s folder structure", files.ProjectDir)
		cli.PrintSuccess("Created project '%s'", project.Name)
		cli.PrintInfo("Put Template.zip in %s to export into the bundled template.", filepath.Join(files.ProjectDir, files.ResourcesDir))
		cli.PrintInfo("Run 'pgstudio' to start the interactive TUI.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pgstudio",
	Long:  `Display the current version of the pgstudio CLI tool`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pgstudio version %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	flags.BoolVar(&noColor, "no-color", false, "Use plain text labels instead of symbols")
	flags.BoolVarP(&skipConfirm, "yes", "y", false, "Answer yes to all confirmations")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")

	initCmd.Flags().BoolVar(&initSample, "sample", false, "Start from the sample project")
	initCmd.Flags().StringVar(&initFrom, "from", "", "Seed the project from a saved YAML or JSON snapshot")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewChapterCommand())
	rootCmd.AddCommand(commands.NewModuleCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewEditCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewDiffCommand())
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewArchiveCommand())
	rootCmd.AddCommand(commands.NewClipboardCommand())
	rootCmd.AddCommand(commands.NewOutlineCommand())
	rootCmd.AddCommand(commands.NewWalkthroughCommand())
	rootCmd.AddCommand(commands.NewBookCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
