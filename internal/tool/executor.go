// Package tool runs the external tools devflow delegates to.
//
// Every workflow step is an [Invocation] handed to an [Executor]. The production
// [ProcessExecutor] resolves the tool on PATH, spawns it with the terminal's
// output streams and returns its exit code unchanged. A tool that cannot be found
// yields [ErrNotFound] and [ExitCodeNotFound] instead of a generic spawn error.
//
// For testing, use [MockExecutor] which implements [Executor] without spawning
// real processes.
package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ExitCodeNotFound is returned for a tool missing from PATH, matching the shell.
const ExitCodeNotFound = 127

// ExitCodeInterrupted is returned when the invocation was cancelled, matching
// a shell killed by SIGINT.
const ExitCodeInterrupted = 130

// waitDelay bounds how long Run waits for output pipes after the process is
// killed, in case it left children holding them open.
const waitDelay = 2 * time.Second

// ErrNotFound indicates the invocation's command could not be resolved.
var ErrNotFound = errors.New("tool not found")

// Invocation is one external process run by a workflow step.
type Invocation struct {
	// Label names the step in progress output, e.g. "coverage html".
	Label string

	// Command is the executable name or path.
	Command string

	// Args follow Command on the command line.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds variables added on top of the executor's environment.
	Env map[string]string

	// ConfigKey is the configuration key that sets Command, shown when the
	// command is missing.
	ConfigKey string
}

// Argv returns the command followed by its arguments.
func (i Invocation) Argv() []string {
	return append([]string{i.Command}, i.Args...)
}

// Executor runs invocations.
//
// Run returns the exit code of the process. A non-nil error means the process
// did not run to completion on its own: the command was not found ([ErrNotFound])
// or the context was cancelled. The returned code is meaningful in both cases.
type Executor interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// ProcessExecutor implements [Executor] with os/exec.
//
// Create instances using [NewProcessExecutor].
type ProcessExecutor struct {
	stdout io.Writer
	stderr io.Writer
	env    map[string]string
	logger *zap.Logger

	// lookPath resolves commands; replaced in tests.
	lookPath func(file string) (string, error)
}

// NewProcessExecutor creates a [ProcessExecutor] that streams tool output to
// stdout and stderr and adds env to every invocation's environment.
func NewProcessExecutor(stdout, stderr io.Writer, env map[string]string, logger *zap.Logger) *ProcessExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessExecutor{
		stdout:   stdout,
		stderr:   stderr,
		env:      env,
		logger:   logger,
		lookPath: exec.LookPath,
	}
}

// Run resolves and spawns the invocation, blocking until it exits.
func (e *ProcessExecutor) Run(ctx context.Context, inv Invocation) (int, error) {
	path, err := e.lookPath(inv.Command)
	if err != nil {
		e.logger.Debug("tool lookup failed", zap.String("command", inv.Command), zap.Error(err))
		return ExitCodeNotFound, fmt.Errorf("%w: %s", ErrNotFound, inv.Command)
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = mergeEnv(os.Environ(), e.env, inv.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	cmd.WaitDelay = waitDelay

	e.logger.Debug("starting tool",
		zap.String("label", inv.Label),
		zap.String("path", path),
		zap.Strings("args", inv.Args),
		zap.String("dir", inv.Dir),
	)

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ExitCodeInterrupted, ctxErr
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 1, fmt.Errorf("failed to run %s: %w", inv.Command, err)
		}
		exitCode = exitErr.ExitCode()
		if exitCode < 0 {
			// terminated by a signal we did not send
			exitCode = 1
		}
	}

	e.logger.Debug("tool exited", zap.String("label", inv.Label), zap.Int("exit_code", exitCode))
	return exitCode, nil
}

// mergeEnv appends overrides to base in key order. os/exec keeps the last
// value of a duplicated key, so later maps win.
func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := append([]string(nil), base...)
	for _, m := range overrides {
		keys := lo.Keys(m)
		sort.Strings(keys)
		for _, k := range keys {
			env = append(env, k+"="+m[k])
		}
	}
	return env
}

// IsNotFound reports whether err came from a missing tool.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// String renders the invocation as a command line, for logs and errors.
func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}
