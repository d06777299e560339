package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
	"gradeledger/internal/port"
)

// MockSheetRepo is a mock implementation of port.ResultSheetRepository.
type MockSheetRepo struct {
	mock.Mock
}

func (m *MockSheetRepo) Create(ctx context.Context, sheet *domain.ResultSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *MockSheetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSheet), args.Error(1)
}

func (m *MockSheetRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.ResultSheet, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSheet), args.Error(1)
}

func (m *MockSheetRepo) List(ctx context.Context, filter port.SheetFilter, offset, limit int) ([]domain.ResultSheet, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResultSheet), args.Int(1), args.Error(2)
}

func (m *MockSheetRepo) UpdateParseResult(ctx context.Context, sheet *domain.ResultSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *MockSheetRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SheetStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSheetRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ResultSheet, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResultSheet), args.Error(1)
}
