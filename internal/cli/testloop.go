package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"devflow/internal/tool"
)

func newTestLoopCommand(app *App) *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "testloop",
		Short: "Run the test suite repeatedly",
		Long: `Run the test suite over and over, waiting loop.delay before each run.

A failing run does not stop the loop. Press Ctrl+C to stop it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Runner.TestLoop(cmd.Context(), iterations)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return NewExitError(tool.ExitCodeInterrupted)
			case tool.IsNotFound(err):
				return NewExitError(tool.ExitCodeNotFound)
			default:
				return err
			}
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 0, "stop after this many runs (0 runs until interrupted)")
	_ = cmd.Flags().MarkHidden("iterations")

	return cmd
}
