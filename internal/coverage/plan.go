package coverage

import (
	"fmt"
	"net/url"
	"path/filepath"

	"devflow/internal/config"
	"devflow/internal/tool"
)

// dataFileEnv tells coverage.py where to keep its database.
const dataFileEnv = "COVERAGE_FILE"

// Plan holds the coverage wrapper invocations in execution order.
type Plan struct {
	// Run executes the test suite under coverage measurement.
	Run tool.Invocation

	// HTML writes the HTML report for the selected files.
	HTML tool.Invocation

	// Report prints the text summary with missing lines for the selected files.
	Report tool.Invocation
}

// NewPlan builds the invocations for a project rooted at root.
// files are the selected sources, relative to root.
func NewPlan(cfg *config.Config, root string, files []string) Plan {
	wrapper := cfg.Tools.Coverage
	env := map[string]string{}
	if cfg.Coverage.DataFile != "" {
		env[dataFileEnv] = cfg.Coverage.DataFile
	}

	step := func(label string, args ...string) tool.Invocation {
		return tool.Invocation{
			Label:     label,
			Command:   wrapper.Command,
			Args:      append(append([]string(nil), wrapper.Args...), args...),
			Dir:       root,
			Env:       env,
			ConfigKey: "tools.coverage.command",
		}
	}

	run := append([]string{"run"}, cfg.Coverage.RunArgs...)
	html := append([]string{"html", "-d", cfg.Coverage.ReportDir}, files...)
	report := append([]string{"report", "-m"}, files...)

	return Plan{
		Run:    step("coverage run", run...),
		HTML:   step("coverage html", html...),
		Report: step("coverage report", report...),
	}
}

// Steps returns the invocations in execution order.
func (p Plan) Steps() []tool.Invocation {
	return []tool.Invocation{p.Run, p.HTML, p.Report}
}

// ReportURL returns the file:// URL of the HTML report's index page.
func ReportURL(root, reportDir string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(root, reportDir, "index.html"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve report path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
