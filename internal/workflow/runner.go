package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"devflow/internal/artifact"
	"devflow/internal/config"
	"devflow/internal/coverage"
	"devflow/internal/output"
	"devflow/internal/tool"
)

// Runner executes workflow commands against a project directory.
//
// Runner uses dependency injection for testability: the [tool.Executor] spawns
// processes, the [afero.Fs] is the project tree used for source selection and
// cleanup, and the [clock.Clock] drives the testloop delay. Use [NewRunner] to
// create an instance; the setters replace the defaults.
type Runner struct {
	executor tool.Executor
	printer  *output.Printer
	config   *config.Config
	root     string
	fs       afero.Fs
	clock    clock.Clock
	logger   *zap.Logger
}

// NewRunner creates a Runner for the project rooted at root.
//
// The filesystem defaults to the OS filesystem confined to root, the clock to
// the wall clock and the logger to a no-op logger.
func NewRunner(executor tool.Executor, printer *output.Printer, cfg *config.Config, root string) *Runner {
	return &Runner{
		executor: executor,
		printer:  printer,
		config:   cfg,
		root:     root,
		fs:       afero.NewBasePathFs(afero.NewOsFs(), root),
		clock:    clock.New(),
		logger:   zap.NewNop(),
	}
}

// SetFs replaces the project filesystem. Paths in fs are relative to the root.
func (r *Runner) SetFs(fs afero.Fs) {
	r.fs = fs
}

// SetClock replaces the clock driving the testloop delay.
func (r *Runner) SetClock(c clock.Clock) {
	r.clock = c
}

// SetLogger replaces the diagnostic logger.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Test runs the test suite once and returns the test runner's exit code.
func (r *Runner) Test(ctx context.Context) int {
	start := r.clock.Now()
	r.printer.CommandStart(CommandTest, 1)

	code, _ := r.runStep(ctx, testInvocation(r.config, r.root))

	return r.finish(CommandTest, code, start)
}

// TestLoop repeats the test suite, waiting the configured delay before each run.
//
// With iterations <= 0 the loop only ends when ctx is cancelled, and TestLoop
// returns ctx.Err(). A positive iterations bounds the number of runs; TestLoop
// then returns nil after the last one. A failing run never stops the loop. A
// missing test runner does, with an error wrapping [tool.ErrNotFound].
func (r *Runner) TestLoop(ctx context.Context, iterations int) error {
	inv := testInvocation(r.config, r.root)

	for n := 1; iterations <= 0 || n <= iterations; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.clock.After(r.config.Loop.Delay):
		}

		r.printer.Iteration(n, r.clock.Now())
		code, err := r.runStep(ctx, inv)
		if err != nil {
			return err
		}
		r.logger.Debug("testloop iteration finished", zap.Int("iteration", n), zap.Int("exit_code", code))
	}

	return nil
}

// Coverage runs the test suite under coverage, then writes the HTML report and
// prints the text summary for the selected sources.
//
// Every step runs even if an earlier one fails, since partial coverage data is
// still worth reporting. The returned code is that of the last failing step,
// or 0. If no sources can be selected the report steps are skipped and the
// command fails with 1.
func (r *Runner) Coverage(ctx context.Context) int {
	start := r.clock.Now()
	const total = 3
	r.printer.CommandStart(CommandCoverage, total)

	files, selectErr := coverage.Select(r.fs, r.config.Coverage.Package, r.config.Coverage.Extension)
	plan := coverage.NewPlan(r.config, r.root, files)

	status := 0
	record := func(code int) {
		if code != 0 {
			status = code
		}
	}

	r.printer.StepStart(1, total, plan.Run.Label)
	code, err := r.runStep(ctx, plan.Run)
	record(code)
	if isCancelled(err) {
		return r.finish(CommandCoverage, code, start)
	}

	if selectErr != nil {
		r.logger.Debug("coverage selection failed", zap.Error(selectErr))
		r.printer.Error(selectErr)
		record(1)
		return r.finish(CommandCoverage, status, start)
	}
	r.logger.Debug("coverage selection", zap.Strings("files", files))

	for i, step := range []tool.Invocation{plan.HTML, plan.Report} {
		r.printer.StepStart(i+2, total, step.Label)
		code, err := r.runStep(ctx, step)
		record(code)
		if isCancelled(err) {
			return r.finish(CommandCoverage, code, start)
		}
	}

	if url, err := coverage.ReportURL(r.root, r.config.Coverage.ReportDir); err == nil {
		r.printer.Hint("open " + url)
	} else {
		r.printer.Hint("open " + filepath.Join(r.config.Coverage.ReportDir, "index.html"))
	}

	return r.finish(CommandCoverage, status, start)
}

// Check runs the static-analysis tool and returns its exit code.
func (r *Runner) Check(ctx context.Context) int {
	start := r.clock.Now()
	r.printer.CommandStart(CommandCheck, 1)

	code, _ := r.runStep(ctx, checkInvocation(r.config, r.root))

	return r.finish(CommandCheck, code, start)
}

// Clean removes the artifact path set. It always returns 0; paths that could
// not be removed are reported as warnings.
func (r *Runner) Clean(ctx context.Context) int {
	start := r.clock.Now()
	r.printer.CommandStart(CommandClean, 1)

	result := artifact.Clean(r.fs, r.config.CleanTargets())
	for _, p := range result.Removed {
		r.printer.Removed(p)
	}
	for _, err := range artifact.Errors(result.Err) {
		r.printer.Warning(err.Error())
	}
	r.logger.Debug("clean finished",
		zap.Int("removed", len(result.Removed)),
		zap.Error(result.Err),
	)

	return r.finish(CommandClean, 0, start)
}

// runStep echoes and runs one invocation. A missing tool is reported here;
// the returned error is non-nil only when the step did not run to completion.
func (r *Runner) runStep(ctx context.Context, inv tool.Invocation) (int, error) {
	if r.config.Output.Echo {
		r.printer.Invocation(inv.Argv())
	}

	start := r.clock.Now()
	code, err := r.executor.Run(ctx, inv)
	switch {
	case tool.IsNotFound(err):
		r.printer.ToolNotFound(inv.Command, inv.ConfigKey)
	case isCancelled(err):
		r.printer.Warning(inv.Label + " interrupted")
	case err != nil:
		r.printer.Error(err)
	default:
		r.printer.StepResult(inv.Label, code, r.clock.Since(start))
	}

	return code, err
}

func (r *Runner) finish(name string, code int, start time.Time) int {
	r.printer.CommandResult(name, code, r.clock.Since(start))
	return code
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
