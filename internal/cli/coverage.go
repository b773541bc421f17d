package cli

import (
	"github.com/spf13/cobra"
)

func newCoverageCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "coverage",
		Aliases: []string{"cov"},
		Short:   "Run the tests under coverage and write the reports",
		Long: `Run the test suite under the coverage wrapper, then:
  1. html   - write the HTML report to coverage.report_dir
  2. report - print the summary with missing lines

Both reports cover the package sources only: files starting with a lowercase
letter, excluding test modules. Every step runs even if an earlier one fails;
devflow exits with the status of the last failing step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitStatus(app.Runner.Coverage(cmd.Context()))
		},
	}
}
