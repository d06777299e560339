package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
	"gradeledger/internal/gpa"
	"gradeledger/internal/service"
)

// MockAnalyticsService is a mock implementation of service.AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) ComputeGPA(assignments []domain.GradeAssignment) gpa.Report {
	args := m.Called(assignments)
	return args.Get(0).(gpa.Report)
}

func (m *MockAnalyticsService) Project(input service.ProjectionInput) (*gpa.Projection, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gpa.Projection), args.Error(1)
}

func (m *MockAnalyticsService) StudentGPA(ctx context.Context, registrationID string) (*service.StudentReport, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudentReport), args.Error(1)
}

func (m *MockAnalyticsService) StudentProjection(ctx context.Context, registrationID string, targetGPA, remainingCredits float64) (*service.StudentProjection, error) {
	args := m.Called(ctx, registrationID, targetGPA, remainingCredits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudentProjection), args.Error(1)
}
