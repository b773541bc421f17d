package cli

import (
	"github.com/spf13/cobra"
)

func newCleanCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove transient build and test output",
		Long: `Remove bytecode caches, editor backup and autosave files, the coverage
database and the HTML coverage report, plus any clean.extra paths.

Caches and editor files are matched at the project root and one level below.
Paths that are already gone are skipped; anything that cannot be removed is
reported as a warning. clean always succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitStatus(app.Runner.Clean(cmd.Context()))
		},
	}
}
