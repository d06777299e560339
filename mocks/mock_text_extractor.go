package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextExtractor is a mock implementation of textract.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}
