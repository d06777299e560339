package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradeledger/internal/domain"
	"gradeledger/internal/port"
)

// insertBatchSize keeps named batch inserts well under the 65535 bind-parameter limit.
const insertBatchSize = 1000

type recordRow struct {
	SheetID uuid.UUID `db:"sheet_id"`
	domain.StudentResult
}

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed SheetRecordRepository.
func NewRecordRepo(db *sqlx.DB) port.SheetRecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) ReplaceForSheet(ctx context.Context, sheetID uuid.UUID, records []domain.StudentResult, assignments []domain.GradeAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recordRepo.ReplaceForSheet begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM grade_assignments WHERE sheet_id = $1", sheetID); err != nil {
		return fmt.Errorf("recordRepo.ReplaceForSheet delete assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sheet_records WHERE sheet_id = $1", sheetID); err != nil {
		return fmt.Errorf("recordRepo.ReplaceForSheet delete records: %w", err)
	}

	rows := make([]recordRow, len(records))
	for i, rec := range records {
		rows[i] = recordRow{SheetID: sheetID, StudentResult: rec}
	}
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO sheet_records (sheet_id, registration_id, grade, remark)
			 VALUES (:sheet_id, :registration_id, :grade, :remark)`, rows[start:end]); err != nil {
			return fmt.Errorf("recordRepo.ReplaceForSheet insert records: %w", err)
		}
	}

	now := time.Now().UTC()
	for i := range assignments {
		assignments[i].ID = uuid.New()
		assignments[i].SheetID = sheetID
		assignments[i].CreatedAt = now
	}
	for start := 0; start < len(assignments); start += insertBatchSize {
		end := min(start+insertBatchSize, len(assignments))
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO grade_assignments (
				id, sheet_id, registration_id, subject_id, grade,
				credit_hours, semester_label, level_label, created_at
			) VALUES (
				:id, :sheet_id, :registration_id, :subject_id, :grade,
				:credit_hours, :semester_label, :level_label, :created_at
			)`, assignments[start:end]); err != nil {
			return fmt.Errorf("recordRepo.ReplaceForSheet insert assignments: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recordRepo.ReplaceForSheet commit: %w", err)
	}
	return nil
}

func (r *recordRepo) ListRecords(ctx context.Context, sheetID uuid.UUID) ([]domain.StudentResult, error) {
	records := []domain.StudentResult{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT registration_id, grade, remark FROM sheet_records
		 WHERE sheet_id = $1 ORDER BY registration_id`, sheetID)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.ListRecords: %w", err)
	}
	return records, nil
}

// ListAssignmentsByStudent returns a student's assignments in chronological
// order: by level, then semester, then upload time.
func (r *recordRepo) ListAssignmentsByStudent(ctx context.Context, registrationID string) ([]domain.GradeAssignment, error) {
	assignments := []domain.GradeAssignment{}
	err := r.db.SelectContext(ctx, &assignments,
		`SELECT id, sheet_id, registration_id, subject_id, grade,
			credit_hours, semester_label, level_label, created_at
		 FROM grade_assignments
		 WHERE registration_id = $1
		 ORDER BY level_label, semester_label, created_at, subject_id`, registrationID)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.ListAssignmentsByStudent: %w", err)
	}
	return assignments, nil
}
