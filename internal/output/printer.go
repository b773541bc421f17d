// Package output renders devflow's own terminal output.
//
// Invoked tools write straight to the terminal; the [Printer] only adds the
// framing around them: command banners, the echoed invocation, step results,
// warnings and hints. All output goes to a single writer so tests can capture it
// with [NewPrinterWithWriter].
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Printer writes formatted status lines to an output writer.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter() *Printer {
	return &Printer{out: os.Stdout}
}

// NewPrinterWithWriter creates a [Printer] writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{out: w}
}

// Writer returns the underlying output writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// CommandStart prints the banner shown before a workflow command runs.
func (p *Printer) CommandStart(name string, steps int) {
	title := fmt.Sprintf("devflow %s", name)
	if steps > 1 {
		title = fmt.Sprintf("%s (%d steps)", title, steps)
	}
	fmt.Fprintln(p.out, headerStyle.Render(title))
}

// StepStart prints the progress line for step index of total.
func (p *Printer) StepStart(index, total int, label string) {
	fmt.Fprintln(p.out, stepStyle.Render(fmt.Sprintf("[%d/%d] %s", index, total, label)))
}

// Invocation echoes a command line the way a shell trace does.
func (p *Printer) Invocation(argv []string) {
	fmt.Fprintln(p.out, echoStyle.Render("+ "+quoteArgs(argv)))
}

// StepResult prints the outcome of one external invocation.
func (p *Printer) StepResult(label string, exitCode int, duration time.Duration) {
	d := duration.Round(time.Millisecond)
	if exitCode == 0 {
		fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf("✓ %s | Duration: %s", label, d)))
		return
	}
	fmt.Fprintln(p.out, failureStyle.Render(fmt.Sprintf("✗ %s | Duration: %s | Exit code: %d", label, d, exitCode)))
}

// CommandResult prints the closing line of a workflow command.
func (p *Printer) CommandResult(name string, exitCode int, duration time.Duration) {
	d := duration.Round(time.Millisecond)
	if exitCode == 0 {
		fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf("✓ %s complete in %s", name, d)))
		return
	}
	fmt.Fprintln(p.out, failureStyle.Render(fmt.Sprintf("✗ %s failed in %s (exit code %d)", name, d, exitCode)))
}

// ToolNotFound reports a tool missing from PATH and the config key that names it.
func (p *Printer) ToolNotFound(tool, configKey string) {
	fmt.Fprintln(p.out, failureStyle.Render(fmt.Sprintf("✗ tool not found: %s", tool)))
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf("  install it or set %s in devflow.yaml", configKey)))
}

// Error prints an error that is not an external tool failure.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, failureStyle.Render(fmt.Sprintf("✗ %v", err)))
}

// Warning prints a non-fatal problem.
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.out, warningStyle.Render("! "+msg))
}

// Hint prints an informational line, such as where a report was written.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.out, hintStyle.Render(msg))
}

// Removed prints one path deleted by clean.
func (p *Printer) Removed(path string) {
	fmt.Fprintln(p.out, mutedStyle.Render("removed "+path))
}

// Iteration prints the separator between testloop runs.
func (p *Printer) Iteration(n int, at time.Time) {
	fmt.Fprintln(p.out, stepStyle.Render(fmt.Sprintf("── run %d · %s ──", n, at.Format("15:04:05"))))
}

func quoteArgs(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " '\"\t") {
			quoted[i] = fmt.Sprintf("%q", arg)
			continue
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
