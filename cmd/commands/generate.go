package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
	"github.com/playgroundstudio/pgstudio/pkg/files"
	"github.com/playgroundstudio/pgstudio/pkg/generator"
	"github.com/playgroundstudio/pgstudio/pkg/models"
)

var (
	generateInput  models.PromptInput
	generateDryRun bool
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Generate the project tree from a prompt",
		Long: `Run the configured content generator and replace the project tree with
its result. Snapshots are applied as they stream in; the project that was
replaced is kept in the archive and can be restored with
'pgstudio archive restore'.

Without generator.command in settings an offline sample generator is used.

Examples:
  # Generate from a plain prompt
  pgstudio generate "Teach fractions with pizza"

  # Add structured context
  pgstudio generate "Teach fractions with pizza" \
    --objective "compare unit fractions" --level "Grade 3"

  # Print the prompt and its size without generating
  pgstudio generate "Teach fractions" --dry-run`,
		PreRunE: requireProject,
		RunE:    runGenerate,
	}

	cmd.Flags().StringVar(&generateInput.LearningObjective, "objective", "", "Specific learning objective")
	cmd.Flags().StringVar(&generateInput.TargetSchoolLevel, "level", "", "Target school level")
	cmd.Flags().StringVar(&generateInput.AvailableAssets, "assets", "", "Assets the book may use")
	cmd.Flags().StringVar(&generateInput.TeacherOrParentIntent, "intent", "", "Who the book is intended for")
	cmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print the final prompt and exit")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input := generateInput
	input.GeneralPrompt = strings.Join(args, " ")
	if input.IsEmpty() {
		return generator.ErrEmptyPrompt
	}

	prompt := input.FinalPrompt()
	tokens := generator.EstimateTokens(prompt)
	if generateDryRun {
		pct, limit, status := generator.PromptBudget(tokens)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, prompt)
		fmt.Fprintf(out, "\n%s (%d%% of %d, %s)\n", generator.FormatTokenCount(tokens), pct, limit, status)
		return nil
	}

	ctx, err := loadContext()
	if err != nil {
		return err
	}
	previous := ctx.Editor.Snapshot()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	session := ctx.GeneratorSession()
	defer session.Shutdown()

	cli.PrintInfo("Generating (%s)...", generator.FormatTokenCount(tokens))
	snapshots := 0
	final, runErr := session.Run(runCtx, input, func(p *models.Project) {
		snapshots++
		ctx.Editor.Replace(p)
		cli.PrintInfo("  snapshot %d: %d chapter(s), %d module(s)", snapshots, len(p.Chapters), p.ModuleCount())
	})
	if runErr != nil {
		if errors.Is(runErr, generator.ErrNoSnapshot) || snapshots == 0 {
			return runErr
		}
		cli.PrintWarning("Generation stopped early: %v", runErr)
	} else {
		ctx.Editor.Replace(final)
	}

	if previous.ModuleCount() > 0 || len(previous.Chapters) > 0 {
		name, err := files.ArchiveProject(previous, time.Now())
		if err != nil {
			return err
		}
		cli.PrintInfo("Previous project archived as %s", name)
	}

	if err := ctx.Save(); err != nil {
		return err
	}
	p := ctx.Editor.Project()
	cli.PrintSuccess("Generated '%s': %d chapter(s), %d module(s)", p.Name, len(p.Chapters), p.ModuleCount())
	return nil
}
