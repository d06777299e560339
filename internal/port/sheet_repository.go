package port

import (
	"context"

	"github.com/google/uuid"

	"gradeledger/internal/domain"
)

// SheetFilter narrows a sheet listing.
type SheetFilter struct {
	Status     domain.SheetStatus
	CourseCode string
}

// ResultSheetRepository defines the contract for result sheet persistence.
type ResultSheetRepository interface {
	Create(ctx context.Context, sheet *domain.ResultSheet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*domain.ResultSheet, error)
	List(ctx context.Context, filter SheetFilter, offset, limit int) ([]domain.ResultSheet, int, error)
	UpdateParseResult(ctx context.Context, sheet *domain.ResultSheet) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SheetStatus) error
	// ClaimQueued atomically moves up to limit queued sheets to processing and returns them.
	ClaimQueued(ctx context.Context, limit int) ([]domain.ResultSheet, error)
}

// SheetRecordRepository defines the contract for parsed records and the grade
// assignments derived from them.
type SheetRecordRepository interface {
	// ReplaceForSheet supersedes every record and assignment of one sheet in a
	// single transaction. Rows of other sheets are never touched.
	ReplaceForSheet(ctx context.Context, sheetID uuid.UUID, records []domain.StudentResult, assignments []domain.GradeAssignment) error
	ListRecords(ctx context.Context, sheetID uuid.UUID) ([]domain.StudentResult, error)
	ListAssignmentsByStudent(ctx context.Context, registrationID string) ([]domain.GradeAssignment, error)
}
