package cli

import (
	"github.com/spf13/cobra"
)

func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run static analysis",
		Long: `Run the static-analysis tool (flake8 by default) with no arguments.
The tool reads its own configuration from the project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitStatus(app.Runner.Check(cmd.Context()))
		},
	}
}
