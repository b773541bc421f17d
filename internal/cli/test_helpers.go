package cli

import (
	"bytes"
	"context"

	"devflow/internal/config"
	"devflow/internal/output"
)

// MockWorkflowRunner is a mock for testing.
type MockWorkflowRunner struct {
	// Executed records every command run, in order.
	Executed []string

	// ExitCode is returned by every command except testloop.
	ExitCode int

	// LoopErr is returned by TestLoop.
	LoopErr error

	// LoopIterations records the iterations argument of each TestLoop call.
	LoopIterations []int
}

func (m *MockWorkflowRunner) Test(ctx context.Context) int {
	m.Executed = append(m.Executed, "test")
	return m.ExitCode
}

func (m *MockWorkflowRunner) TestLoop(ctx context.Context, iterations int) error {
	m.Executed = append(m.Executed, "testloop")
	m.LoopIterations = append(m.LoopIterations, iterations)
	return m.LoopErr
}

func (m *MockWorkflowRunner) Coverage(ctx context.Context) int {
	m.Executed = append(m.Executed, "coverage")
	return m.ExitCode
}

func (m *MockWorkflowRunner) Check(ctx context.Context) int {
	m.Executed = append(m.Executed, "check")
	return m.ExitCode
}

func (m *MockWorkflowRunner) Clean(ctx context.Context) int {
	m.Executed = append(m.Executed, "clean")
	return 0
}

// newTestApp creates an App around runner with default config and captured output.
func newTestApp(runner WorkflowRunner) (*App, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &App{
		Config:  config.DefaultConfig(),
		Runner:  runner,
		Printer: output.NewPrinterWithWriter(buf),
	}, buf
}
