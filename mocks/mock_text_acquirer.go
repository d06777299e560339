package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
	"gradeledger/internal/textract"
)

// MockTextAcquirer is a mock implementation of parser.TextAcquirer.
type MockTextAcquirer struct {
	mock.Mock
}

func (m *MockTextAcquirer) Acquire(ctx context.Context, doc domain.RawDocument) (textract.Acquisition, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(textract.Acquisition), args.Error(1)
}
