package cli

import (
	"github.com/spf13/cobra"
)

func newTestCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the test suite",
		Long: `Run the test suite once in verbose mode.

devflow exits with the test runner's exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitStatus(app.Runner.Test(cmd.Context()))
		},
	}
}
