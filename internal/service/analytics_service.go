package service

import (
	"context"
	"fmt"
	"math"

	"gradeledger/internal/domain"
	"gradeledger/internal/gpa"
	"gradeledger/internal/parser"
	"gradeledger/internal/port"
)

// ProjectionInput is the DTO for a target-GPA projection.
type ProjectionInput struct {
	CurrentGPA       float64 `json:"current_gpa"`
	CompletedCredits float64 `json:"completed_credits"`
	TargetGPA        float64 `json:"target_gpa"`
	RemainingCredits float64 `json:"remaining_credits"`
}

// StudentReport is a student's GPA report built from stored grade assignments.
type StudentReport struct {
	RegistrationID string                   `json:"registration_id"`
	Report         gpa.Report               `json:"report"`
	Assignments    []domain.GradeAssignment `json:"assignments"`
}

// StudentProjection is a projection seeded from a student's stored record.
type StudentProjection struct {
	RegistrationID   string         `json:"registration_id"`
	CurrentGPA       float64        `json:"current_gpa"`
	CompletedCredits float64        `json:"completed_credits"`
	TargetGPA        float64        `json:"target_gpa"`
	RemainingCredits float64        `json:"remaining_credits"`
	Projection       gpa.Projection `json:"projection"`
}

// AnalyticsService defines the grade analytics contract.
type AnalyticsService interface {
	ComputeGPA(assignments []domain.GradeAssignment) gpa.Report
	Project(input ProjectionInput) (*gpa.Projection, error)
	StudentGPA(ctx context.Context, registrationID string) (*StudentReport, error)
	StudentProjection(ctx context.Context, registrationID string, targetGPA, remainingCredits float64) (*StudentProjection, error)
}

type analyticsService struct {
	recordRepo port.SheetRecordRepository
}

// NewAnalyticsService creates a new AnalyticsService implementation.
func NewAnalyticsService(recordRepo port.SheetRecordRepository) AnalyticsService {
	return &analyticsService{recordRepo: recordRepo}
}

func (s *analyticsService) ComputeGPA(assignments []domain.GradeAssignment) gpa.Report {
	return gpa.Compute(assignments)
}

func (s *analyticsService) Project(input ProjectionInput) (*gpa.Projection, error) {
	if err := validateProjection(input); err != nil {
		return nil, err
	}
	p := gpa.Project(input.CurrentGPA, input.CompletedCredits, input.TargetGPA, input.RemainingCredits)
	return &p, nil
}

// validateProjection rejects inputs outside the grade-point scale or with
// negative credits. An unreachable target is not an input error.
func validateProjection(in ProjectionInput) error {
	for _, v := range []float64{in.CurrentGPA, in.CompletedCredits, in.TargetGPA, in.RemainingCredits} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.ErrInvalidProjection
		}
	}
	if in.CurrentGPA < 0 || in.CurrentGPA > gpa.MaxGradePoint ||
		in.TargetGPA < 0 || in.TargetGPA > gpa.MaxGradePoint {
		return domain.ErrInvalidProjection
	}
	if in.CompletedCredits < 0 || in.RemainingCredits < 0 {
		return domain.ErrInvalidProjection
	}
	return nil
}

func (s *analyticsService) StudentGPA(ctx context.Context, registrationID string) (*StudentReport, error) {
	id := parser.CanonicalRegNo(registrationID)
	if !parser.ValidRegNo(id) {
		return nil, domain.ErrInvalidRegistration
	}

	assignments, err := s.recordRepo.ListAssignmentsByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("analyticsService.StudentGPA: %w", err)
	}
	if len(assignments) == 0 {
		return nil, domain.ErrNotFound
	}

	return &StudentReport{
		RegistrationID: id,
		Report:         gpa.Compute(assignments),
		Assignments:    assignments,
	}, nil
}

func (s *analyticsService) StudentProjection(ctx context.Context, registrationID string, targetGPA, remainingCredits float64) (*StudentProjection, error) {
	report, err := s.StudentGPA(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	in := ProjectionInput{
		CurrentGPA:       report.Report.Overall.GPA,
		CompletedCredits: report.Report.Overall.TotalCreditHours,
		TargetGPA:        targetGPA,
		RemainingCredits: remainingCredits,
	}
	p, err := s.Project(in)
	if err != nil {
		return nil, err
	}

	return &StudentProjection{
		RegistrationID:   report.RegistrationID,
		CurrentGPA:       in.CurrentGPA,
		CompletedCredits: in.CompletedCredits,
		TargetGPA:        targetGPA,
		RemainingCredits: remainingCredits,
		Projection:       *p,
	}, nil
}
