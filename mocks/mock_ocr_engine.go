package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
)

// MockOCREngine is a mock implementation of textract.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, doc domain.RawDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}
