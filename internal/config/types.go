// Package config provides configuration loading and management for devflow.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The defaults describe a Python project driven by
// runtests.py, coverage.py and flake8, so the tool works without any config file.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [ToolConfig] describes one external tool invocation
//   - [CoverageConfig] holds the coverage wrapper and report settings
//
// Configuration priority (highest to lowest):
//  1. Environment variables (DEVFLOW_ prefix, dots become underscores)
//  2. Config file given by --config or DEVFLOW_CONFIG_PATH
//  3. ./devflow.yaml
//  4. User config directory (platform-standard), devflow/devflow.yaml
//  5. [DefaultConfig] defaults
package config

import "time"

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used throughout
// the application. Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// Tools holds the external tools each workflow command delegates to.
	Tools ToolsConfig `mapstructure:"tools" yaml:"tools"`

	// Coverage contains the coverage report settings.
	Coverage CoverageConfig `mapstructure:"coverage" yaml:"coverage"`

	// Loop contains testloop settings.
	Loop LoopConfig `mapstructure:"loop" yaml:"loop"`

	// Clean contains the artifact path set removed by the clean command.
	Clean CleanConfig `mapstructure:"clean" yaml:"clean"`

	// Env is added to the environment of every invoked tool.
	// Entries override variables inherited from the parent process.
	Env map[string]string `mapstructure:"env" yaml:"env"`

	// Output contains terminal output configuration.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// ToolsConfig groups the tools invoked by the workflow commands.
type ToolsConfig struct {
	// Test is the test runner, invoked in verbose mode by test and testloop.
	Test ToolConfig `mapstructure:"test" yaml:"test"`

	// Coverage is the coverage wrapper. Its run, html and report subcommands
	// are appended to Args.
	Coverage ToolConfig `mapstructure:"coverage" yaml:"coverage"`

	// Check is the static-analysis tool. It locates its own config file.
	Check ToolConfig `mapstructure:"check" yaml:"check"`
}

// ToolConfig describes how to invoke one external tool.
type ToolConfig struct {
	// Command is the executable name or path. Bare names are resolved on PATH.
	Command string `mapstructure:"command" yaml:"command"`

	// Args are passed to Command before any workflow-specific arguments.
	Args []string `mapstructure:"args" yaml:"args"`
}

// Argv returns the command followed by its arguments.
func (t ToolConfig) Argv() []string {
	return append([]string{t.Command}, t.Args...)
}

// CoverageConfig contains the settings of the coverage command.
type CoverageConfig struct {
	// RunArgs follow "run" when the test suite is executed under coverage.
	// Default: ["runtests.py", "-v"]
	RunArgs []string `mapstructure:"run_args" yaml:"run_args"`

	// Package is the directory whose sources are included in the reports.
	Package string `mapstructure:"package" yaml:"package"`

	// Extension is the source file extension considered by the selection.
	// Default: ".py"
	Extension string `mapstructure:"extension" yaml:"extension"`

	// DataFile is the coverage database written at the project root.
	DataFile string `mapstructure:"data_file" yaml:"data_file"`

	// ReportDir is the directory the HTML report is generated into.
	ReportDir string `mapstructure:"report_dir" yaml:"report_dir"`
}

// LoopConfig contains testloop settings.
type LoopConfig struct {
	// Delay is the pause before each test run.
	// Default: 1s
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`
}

// CleanConfig contains the artifact path set.
type CleanConfig struct {
	// Patterns are glob patterns relative to the project root.
	// Patterns support *, ? and [...] classes; ** is not used by the defaults.
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`

	// Extra are additional paths or patterns removed after Patterns,
	// for example "build" and "dist".
	Extra []string `mapstructure:"extra" yaml:"extra"`
}

// OutputConfig contains terminal output configuration.
type OutputConfig struct {
	// Echo prints each invocation as "+ command args..." before it runs.
	// Default: true
	Echo bool `mapstructure:"echo" yaml:"echo"`
}

// DefaultPatterns is the artifact path set removed by clean: bytecode caches,
// editor backup and autosave files at the root and one level deep.
// The coverage data file and report directory are added from [CoverageConfig].
var DefaultPatterns = []string{
	"__pycache__", "*/__pycache__",
	"*.py[co]", "*/*.py[co]",
	"*~", "*/*~",
	".*~", "*/.*~",
	"@*", "*/@*",
	"#*#", "*/#*#",
	"*.orig", "*/*.orig",
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			Test: ToolConfig{
				Command: "python3",
				Args:    []string{"runtests.py", "-v"},
			},
			Coverage: ToolConfig{
				Command: "python3",
				Args:    []string{"-m", "coverage"},
			},
			Check: ToolConfig{
				Command: "flake8",
			},
		},
		Coverage: CoverageConfig{
			RunArgs:   []string{"runtests.py", "-v"},
			Package:   "asyncio",
			Extension: ".py",
			DataFile:  ".coverage",
			ReportDir: "htmlcov",
		},
		Loop: LoopConfig{
			Delay: time.Second,
		},
		Clean: CleanConfig{
			Patterns: append([]string(nil), DefaultPatterns...),
		},
		Env: map[string]string{},
		Output: OutputConfig{
			Echo: true,
		},
	}
}

// CleanTargets returns the full artifact path set: the configured patterns,
// the coverage data file, the HTML report directory and any extra paths.
func (c *Config) CleanTargets() []string {
	targets := append([]string(nil), c.Clean.Patterns...)
	if c.Coverage.DataFile != "" {
		targets = append(targets, c.Coverage.DataFile)
	}
	if c.Coverage.ReportDir != "" {
		targets = append(targets, c.Coverage.ReportDir)
	}
	return append(targets, c.Clean.Extra...)
}
