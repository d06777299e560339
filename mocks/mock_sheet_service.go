package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
	"gradeledger/internal/port"
	"gradeledger/internal/service"
)

// MockSheetService is a mock implementation of service.SheetService.
type MockSheetService struct {
	mock.Mock
}

func (m *MockSheetService) Upload(ctx context.Context, input *service.UploadSheetInput) (*service.UploadSheetResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadSheetResult), args.Error(1)
}

func (m *MockSheetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSheet), args.Error(1)
}

func (m *MockSheetService) List(ctx context.Context, filter port.SheetFilter, offset, limit int) ([]domain.ResultSheet, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResultSheet), args.Int(1), args.Error(2)
}

func (m *MockSheetService) ListRecords(ctx context.Context, id uuid.UUID) ([]domain.StudentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentResult), args.Error(1)
}

func (m *MockSheetService) RetryParse(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSheet), args.Error(1)
}

func (m *MockSheetService) SubmitManualRecords(ctx context.Context, id uuid.UUID, records []domain.StudentResult) (*domain.ResultSheet, error) {
	args := m.Called(ctx, id, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSheet), args.Error(1)
}

func (m *MockSheetService) Export(ctx context.Context, id uuid.UUID, format string) (*service.ExportOutput, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}

func (m *MockSheetService) ParseSheet(ctx context.Context, sheet *domain.ResultSheet, maxAttempts int) {
	m.Called(ctx, sheet, maxAttempts)
}
