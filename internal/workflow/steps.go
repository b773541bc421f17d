// Package workflow implements devflow's workflow commands.
//
// A workflow is a fixed sequence of external tool invocations plus, for clean,
// filesystem cleanup. The [Runner] sequences the invocations, echoes and frames
// them through the output printer, and turns the tools' exit statuses into the
// command's exit status.
//
// Key types:
//   - [Runner] runs test, testloop, coverage, check and clean
//
// The [Runner] requires a [tool.Executor] for spawning processes. Tool command
// lines and the artifact path set come from the config package.
package workflow

import (
	"devflow/internal/config"
	"devflow/internal/tool"
)

// Command names, as exposed on the command line.
const (
	CommandTest     = "test"
	CommandTestLoop = "testloop"
	CommandCoverage = "coverage"
	CommandCheck    = "check"
	CommandClean    = "clean"
)

// testInvocation runs the test suite in verbose mode.
func testInvocation(cfg *config.Config, root string) tool.Invocation {
	return tool.Invocation{
		Label:     CommandTest,
		Command:   cfg.Tools.Test.Command,
		Args:      append([]string(nil), cfg.Tools.Test.Args...),
		Dir:       root,
		ConfigKey: "tools.test.command",
	}
}

// checkInvocation runs the static-analysis tool, which finds its own config.
func checkInvocation(cfg *config.Config, root string) tool.Invocation {
	return tool.Invocation{
		Label:     CommandCheck,
		Command:   cfg.Tools.Check.Command,
		Args:      append([]string(nil), cfg.Tools.Check.Args...),
		Dir:       root,
		ConfigKey: "tools.check.command",
	}
}
