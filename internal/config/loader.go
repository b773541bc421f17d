package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "DEVFLOW"

// EnvConfigPath names an explicit config file, used when no --config flag is given.
const EnvConfigPath = "DEVFLOW_CONFIG_PATH"

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = "devflow.yaml"

// Loader handles configuration loading using Viper.
//
// Use [NewLoader] to create an instance. Defaults from [DefaultConfig] are
// registered on creation so every key can be overridden by environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] with defaults and environment bindings.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tools.test.command", cfg.Tools.Test.Command)
	v.SetDefault("tools.test.args", cfg.Tools.Test.Args)
	v.SetDefault("tools.coverage.command", cfg.Tools.Coverage.Command)
	v.SetDefault("tools.coverage.args", cfg.Tools.Coverage.Args)
	v.SetDefault("tools.check.command", cfg.Tools.Check.Command)
	v.SetDefault("tools.check.args", cfg.Tools.Check.Args)

	v.SetDefault("coverage.run_args", cfg.Coverage.RunArgs)
	v.SetDefault("coverage.package", cfg.Coverage.Package)
	v.SetDefault("coverage.extension", cfg.Coverage.Extension)
	v.SetDefault("coverage.data_file", cfg.Coverage.DataFile)
	v.SetDefault("coverage.report_dir", cfg.Coverage.ReportDir)

	v.SetDefault("loop.delay", cfg.Loop.Delay)

	v.SetDefault("clean.patterns", cfg.Clean.Patterns)
	v.SetDefault("clean.extra", cfg.Clean.Extra)

	v.SetDefault("env", cfg.Env)
	v.SetDefault("output.echo", cfg.Output.Echo)
}

// Load resolves the config file location and loads the configuration.
//
// DEVFLOW_CONFIG_PATH wins over ./devflow.yaml, which wins over the user config
// directory. With no file at all, defaults plus environment overrides are returned.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return l.LoadFromFile(path)
	}

	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return l.LoadFromFile(path)
		}
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from an explicit YAML file.
// An empty path behaves like [Loader.Load].
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return l.Load()
	}

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return l.unmarshal()
}

// ConfigFileUsed returns the path of the file that was read, or "" if only
// defaults and environment variables were applied.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Env = normalizeEnv(cfg.Env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalizeEnv upper-cases variable names. Viper keys are case-insensitive and
// come back lower-cased, while environment variable names are conventionally upper case.
func normalizeEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// Validate reports configuration that would make every invocation fail.
func (c *Config) Validate() error {
	var errs error
	if c.Tools.Test.Command == "" {
		errs = multierr.Append(errs, errors.New("tools.test.command is required"))
	}
	if c.Tools.Coverage.Command == "" {
		errs = multierr.Append(errs, errors.New("tools.coverage.command is required"))
	}
	if c.Tools.Check.Command == "" {
		errs = multierr.Append(errs, errors.New("tools.check.command is required"))
	}
	if c.Coverage.Package == "" {
		errs = multierr.Append(errs, errors.New("coverage.package is required"))
	}
	if c.Loop.Delay < 0 {
		errs = multierr.Append(errs, fmt.Errorf("loop.delay must not be negative, got %s", c.Loop.Delay))
	}
	if errs != nil {
		return fmt.Errorf("invalid config: %w", errs)
	}
	return nil
}

func searchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "devflow", FileName))
	}
	return paths
}
