package commands

import (
	"github.com/spf13/cobra"

	"github.com/playgroundstudio/pgstudio/internal/cli"
)

// requireProject is the PreRunE shared by every command that reads the
// project.
func requireProject(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	return ctx.ValidateProject()
}

// loadContext returns a command context with the project loaded.
func loadContext() (*cli.CommandContext, error) {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return nil, err
	}
	if _, err := ctx.LoadEditor(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json, yaml)")
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = "text"
	}
	if err := cli.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}
