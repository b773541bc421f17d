// Package cli provides the command-line interface for devflow.
//
// The CLI is built on Cobra. [NewRootCommand] assembles the command tree around
// an [App], which holds the loaded configuration, the workflow runner and the
// output printer.
//
// Commands:
//   - test: run the test suite once
//   - testloop: run the test suite repeatedly until interrupted
//   - coverage (alias cov): run the tests under coverage and write the reports
//   - check: run the static-analysis tool
//   - clean: remove bytecode caches, editor leftovers and coverage output
//   - config: print the effective configuration
//
// Exit codes are carried by [ExitError] values returned from the commands and
// turned into an [ExecuteResult] by [RunWithConfig]. Only [Execute] terminates
// the process.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devflow/internal/config"
	"devflow/internal/logging"
	"devflow/internal/output"
	"devflow/internal/tool"
	"devflow/internal/workflow"
)

// WorkflowRunner runs the workflow commands.
//
// [workflow.Runner] is the production implementation; tests use
// [MockWorkflowRunner].
type WorkflowRunner interface {
	Test(ctx context.Context) int
	TestLoop(ctx context.Context, iterations int) error
	Coverage(ctx context.Context) int
	Check(ctx context.Context) int
	Clean(ctx context.Context) int
}

// App holds the dependencies shared by every command.
//
// Fields left nil are filled in before the first command runs: the config is
// loaded from the --config file or the usual search locations, and the runner
// is built on the real process executor. Tests set them up front instead.
type App struct {
	Config  *config.Config
	Runner  WorkflowRunner
	Printer *output.Printer
	Logger  *zap.Logger
}

// ExecuteResult is the outcome of a CLI run.
type ExecuteResult struct {
	// ExitCode is the process exit status.
	ExitCode int

	// Err is the error that produced ExitCode, if any.
	Err error
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(app *App) *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	rootCmd := &cobra.Command{
		Use:   "devflow",
		Short: "Developer workflow runner",
		Long: `devflow runs the project's everyday development tasks with consistent
semantics: tests, a test loop, coverage reports, static analysis and cleanup.

Each command wraps an external tool and exits with that tool's status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(configPath, debug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./devflow.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log diagnostic detail to stderr")

	rootCmd.AddCommand(
		newTestCommand(app),
		newTestLoopCommand(app),
		newCoverageCommand(app),
		newCheckCommand(app),
		newCleanCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// setup fills in the dependencies the caller did not provide.
func (app *App) setup(configPath string, debug bool) error {
	if app.Printer == nil {
		app.Printer = output.NewPrinter()
	}

	if app.Logger == nil || debug {
		logger, err := logging.New(debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		app.Logger = logger
	}

	if app.Config == nil {
		loader := config.NewLoader()
		cfg, err := loader.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		app.Config = cfg
		app.Logger.Debug("config loaded", zap.String("file", loader.ConfigFileUsed()))
	}

	if app.Runner == nil {
		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine project root: %w", err)
		}
		executor := tool.NewProcessExecutor(os.Stdout, os.Stderr, app.Config.Env, app.Logger)
		runner := workflow.NewRunner(executor, app.Printer, app.Config, root)
		runner.SetLogger(app.Logger)
		app.Runner = runner
	}

	return nil
}

// RunWithConfig executes the CLI with args and returns the result instead of
// exiting. A nil cfg means the configuration is loaded from disk.
func RunWithConfig(ctx context.Context, cfg *config.Config, args []string) ExecuteResult {
	app := &App{Config: cfg}
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: 1, Err: err}
	}

	return ExecuteResult{ExitCode: 0}
}

// Execute runs the CLI with the process arguments and exits with the result.
//
// SIGINT and SIGTERM cancel the command's context, which stops a running tool
// and ends testloop.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result := RunWithConfig(ctx, nil, os.Args[1:])
	stop()

	if result.Err != nil {
		if _, ok := IsExitError(result.Err); !ok {
			fmt.Fprintln(os.Stderr, "Error:", result.Err)
		}
	}
	os.Exit(result.ExitCode)
}
