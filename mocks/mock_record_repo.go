package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
)

// MockRecordRepo is a mock implementation of port.SheetRecordRepository.
type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) ReplaceForSheet(ctx context.Context, sheetID uuid.UUID, records []domain.StudentResult, assignments []domain.GradeAssignment) error {
	args := m.Called(ctx, sheetID, records, assignments)
	return args.Error(0)
}

func (m *MockRecordRepo) ListRecords(ctx context.Context, sheetID uuid.UUID) ([]domain.StudentResult, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudentResult), args.Error(1)
}

func (m *MockRecordRepo) ListAssignmentsByStudent(ctx context.Context, registrationID string) ([]domain.GradeAssignment, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GradeAssignment), args.Error(1)
}
