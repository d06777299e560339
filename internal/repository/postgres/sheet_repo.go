package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gradeledger/internal/domain"
	"gradeledger/internal/port"
)

type sheetRepo struct {
	db *sqlx.DB
}

// NewSheetRepo creates a new PostgreSQL-backed ResultSheetRepository.
func NewSheetRepo(db *sqlx.DB) port.ResultSheetRepository {
	return &sheetRepo{db: db}
}

func (r *sheetRepo) Create(ctx context.Context, sheet *domain.ResultSheet) error {
	now := time.Now().UTC()
	sheet.CreatedAt = now
	sheet.UpdatedAt = now

	query := `INSERT INTO result_sheets (
		id, file_name, media_type, file_size, fingerprint, s3_bucket, s3_key,
		metadata, metadata_override, status, record_count, extraction_method,
		used_fallback, text_sample, diagnostics, parse_error, parse_attempts,
		parsed_at, uploaded_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12,
		$13, $14, $15, $16, $17,
		$18, $19, $20, $21
	)`

	_, err := r.db.ExecContext(ctx, query,
		sheet.ID, sheet.FileName, sheet.MediaType, sheet.FileSize, sheet.Fingerprint, sheet.S3Bucket, sheet.S3Key,
		sheet.Metadata, sheet.MetadataOverride, sheet.Status, sheet.RecordCount, sheet.ExtractionMethod,
		sheet.UsedFallback, sheet.TextSample, sheet.Diagnostics, sheet.ParseError, sheet.ParseAttempts,
		sheet.ParsedAt, sheet.UploadedBy, sheet.CreatedAt, sheet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sheetRepo.Create: %w", err)
	}
	return nil
}

func (r *sheetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error) {
	var sheet domain.ResultSheet
	err := r.db.GetContext(ctx, &sheet, "SELECT * FROM result_sheets WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSheetNotFound
		}
		return nil, fmt.Errorf("sheetRepo.GetByID: %w", err)
	}
	return &sheet, nil
}

func (r *sheetRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.ResultSheet, error) {
	var sheet domain.ResultSheet
	err := r.db.GetContext(ctx, &sheet,
		"SELECT * FROM result_sheets WHERE fingerprint = $1 ORDER BY created_at LIMIT 1", fingerprint)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSheetNotFound
		}
		return nil, fmt.Errorf("sheetRepo.GetByFingerprint: %w", err)
	}
	return &sheet, nil
}

func (r *sheetRepo) List(ctx context.Context, filter port.SheetFilter, offset, limit int) ([]domain.ResultSheet, int, error) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CourseCode != "" {
		args = append(args, filter.CourseCode)
		conds = append(conds, fmt.Sprintf(
			"COALESCE(NULLIF(metadata_override->>'course_code', ''), metadata->>'course_code') = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM result_sheets"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("sheetRepo.List count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM result_sheets%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))
	var sheets []domain.ResultSheet
	if err := r.db.SelectContext(ctx, &sheets, query, args...); err != nil {
		return nil, 0, fmt.Errorf("sheetRepo.List: %w", err)
	}
	return sheets, total, nil
}

func (r *sheetRepo) UpdateParseResult(ctx context.Context, sheet *domain.ResultSheet) error {
	sheet.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE result_sheets SET
			status = $1, metadata = $2, record_count = $3, extraction_method = $4,
			used_fallback = $5, text_sample = $6, diagnostics = $7, parse_error = $8,
			parse_attempts = $9, parsed_at = $10, updated_at = $11
		 WHERE id = $12`,
		sheet.Status, sheet.Metadata, sheet.RecordCount, sheet.ExtractionMethod,
		sheet.UsedFallback, sheet.TextSample, sheet.Diagnostics, sheet.ParseError,
		sheet.ParseAttempts, sheet.ParsedAt, sheet.UpdatedAt,
		sheet.ID)
	if err != nil {
		return fmt.Errorf("sheetRepo.UpdateParseResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSheetNotFound
	}
	return nil
}

func (r *sheetRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SheetStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE result_sheets SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("sheetRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSheetNotFound
	}
	return nil
}

// ClaimQueued uses SKIP LOCKED so several workers can poll the same table
// without claiming a sheet twice.
func (r *sheetRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ResultSheet, error) {
	var sheets []domain.ResultSheet
	err := r.db.SelectContext(ctx, &sheets,
		`UPDATE result_sheets SET status = $1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM result_sheets
			WHERE status = $2
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.SheetStatusProcessing, domain.SheetStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("sheetRepo.ClaimQueued: %w", err)
	}
	return sheets, nil
}
