package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRunner is a mock implementation of textract.Runner.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	called := m.Called(ctx, stdin, name, args)
	var stdout, stderr []byte
	if v := called.Get(0); v != nil {
		stdout = v.([]byte)
	}
	if v := called.Get(1); v != nil {
		stderr = v.([]byte)
	}
	return stdout, stderr, called.Error(2)
}
