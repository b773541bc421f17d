package tool

import (
	"context"
	"fmt"
)

// MockExecutor implements [Executor] for testing.
//
// Configure the mock by setting its fields before use:
//
//	mock := &MockExecutor{ExitCodes: []int{1, 0}}
//
// Each call consumes the next entry of ExitCodes; once exhausted, ExitCode is
// returned. Commands listed in Missing fail with [ErrNotFound].
type MockExecutor struct {
	// ExitCode is returned when ExitCodes is exhausted.
	ExitCode int

	// ExitCodes are returned in order, one per call.
	ExitCodes []int

	// Missing lists commands that behave as if absent from PATH.
	Missing map[string]bool

	// OnRun, if set, is called with every invocation before it is recorded.
	OnRun func(inv Invocation)

	// Recorded holds every invocation in call order.
	Recorded []Invocation
}

// Run records the invocation and returns the scripted result.
func (m *MockExecutor) Run(ctx context.Context, inv Invocation) (int, error) {
	if m.OnRun != nil {
		m.OnRun(inv)
	}
	m.Recorded = append(m.Recorded, inv)

	if err := ctx.Err(); err != nil {
		return ExitCodeInterrupted, err
	}
	if m.Missing[inv.Command] {
		return ExitCodeNotFound, fmt.Errorf("%w: %s", ErrNotFound, inv.Command)
	}

	if len(m.ExitCodes) > 0 {
		code := m.ExitCodes[0]
		m.ExitCodes = m.ExitCodes[1:]
		return code, nil
	}
	return m.ExitCode, nil
}

// Labels returns the label of every recorded invocation.
func (m *MockExecutor) Labels() []string {
	labels := make([]string, len(m.Recorded))
	for i, inv := range m.Recorded {
		labels[i] = inv.Label
	}
	return labels
}
