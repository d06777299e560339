package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
)

// MockDocumentParser is a mock implementation of port.DocumentParser.
type MockDocumentParser struct {
	mock.Mock
}

func (m *MockDocumentParser) Parse(ctx context.Context, doc domain.RawDocument) (*domain.ParseResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResult), args.Error(1)
}
