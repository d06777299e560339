package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"gradeledger/internal/config"
	"gradeledger/internal/domain"
	"gradeledger/internal/export"
	"gradeledger/internal/parser"
	"gradeledger/internal/port"
)

// UploadSheetInput is the DTO for uploading a result sheet.
type UploadSheetInput struct {
	UploadedBy uuid.UUID
	FileName   string
	Size       int64
	File       io.Reader
	// Override replaces individual parsed metadata fields; zero fields are ignored.
	Override *domain.SheetMetadata
}

// UploadSheetResult is returned by Upload. Duplicate is set when identical
// content was uploaded before and the existing sheet is returned.
type UploadSheetResult struct {
	Sheet     *domain.ResultSheet
	Duplicate bool
}

// ExportOutput is a rendered export ready to be streamed.
type ExportOutput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SheetService defines the result sheet ingestion contract.
type SheetService interface {
	Upload(ctx context.Context, input *UploadSheetInput) (*UploadSheetResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error)
	List(ctx context.Context, filter port.SheetFilter, offset, limit int) ([]domain.ResultSheet, int, error)
	ListRecords(ctx context.Context, id uuid.UUID) ([]domain.StudentResult, error)
	RetryParse(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error)
	SubmitManualRecords(ctx context.Context, id uuid.UUID, records []domain.StudentResult) (*domain.ResultSheet, error)
	Export(ctx context.Context, id uuid.UUID, format string) (*ExportOutput, error)
	ParseSheet(ctx context.Context, sheet *domain.ResultSheet, maxAttempts int)
}

type sheetService struct {
	sheetRepo  port.ResultSheetRepository
	recordRepo port.SheetRecordRepository
	parser     port.DocumentParser
	storage    port.ObjectStorage
	cfg        *config.S3Config
}

// NewSheetService creates a new SheetService implementation.
func NewSheetService(
	sheetRepo port.ResultSheetRepository,
	recordRepo port.SheetRecordRepository,
	docParser port.DocumentParser,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) SheetService {
	return &sheetService{
		sheetRepo:  sheetRepo,
		recordRepo: recordRepo,
		parser:     docParser,
		storage:    storage,
		cfg:        cfg,
	}
}

// Fingerprint returns the hex BLAKE2b-256 digest used to detect re-uploads.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *sheetService) Upload(ctx context.Context, input *UploadSheetInput) (*UploadSheetResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	mediaType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedMediaType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	reader := input.File
	if maxBytes > 0 {
		reader = io.LimitReader(input.File, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if !contentMatches(mediaType, data) {
		return nil, domain.ErrUnsupportedMediaType
	}

	fingerprint := Fingerprint(data)
	existing, err := s.sheetRepo.GetByFingerprint(ctx, fingerprint)
	switch {
	case err == nil:
		log.Printf("sheetService.Upload: %s matches existing sheet %s", input.FileName, existing.ID)
		return &UploadSheetResult{Sheet: existing, Duplicate: true}, nil
	case !errors.Is(err, domain.ErrSheetNotFound):
		return nil, fmt.Errorf("checking fingerprint: %w", err)
	}

	override := json.RawMessage("{}")
	if input.Override != nil {
		if override, err = json.Marshal(input.Override); err != nil {
			return nil, fmt.Errorf("encoding metadata override: %w", err)
		}
	}

	sheetID := uuid.New()
	sheet := &domain.ResultSheet{
		ID:               sheetID,
		FileName:         filepath.Base(input.FileName),
		MediaType:        mediaType,
		FileSize:         int64(len(data)),
		Fingerprint:      fingerprint,
		S3Bucket:         s.cfg.Bucket,
		S3Key:            fmt.Sprintf("sheets/%s/%s", sheetID, filepath.Base(input.FileName)),
		Metadata:         json.RawMessage("{}"),
		MetadataOverride: override,
		Status:           domain.SheetStatusPending,
		ExtractionMethod: domain.MethodNone,
		Diagnostics:      json.RawMessage("{}"),
		UploadedBy:       input.UploadedBy,
	}

	log.Printf("sheetService.Upload: uploading %s (%s, %d bytes) by %s",
		sheet.FileName, mediaType, sheet.FileSize, input.UploadedBy)

	if err := s.sheetRepo.Create(ctx, sheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      sheet.S3Bucket,
		Key:         sheet.S3Key,
		Body:        bytes.NewReader(data),
		MediaType:   mediaType,
		Size:        sheet.FileSize,
		Fingerprint: sheet.Fingerprint,
	}); err != nil {
		log.Printf("sheetService.Upload: S3 upload failed for sheet %s: %v", sheet.ID, err)
		_ = s.sheetRepo.UpdateStatus(ctx, sheet.ID, domain.SheetStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.sheetRepo.UpdateStatus(ctx, sheet.ID, domain.SheetStatusQueued); err != nil {
		return nil, fmt.Errorf("queueing sheet: %w", err)
	}
	sheet.Status = domain.SheetStatusQueued

	return &UploadSheetResult{Sheet: sheet}, nil
}

// contentMatches rejects binary uploads whose leading bytes contradict the extension.
// Text formats and XLSX (a zip container) are checked loosely.
func contentMatches(mediaType string, data []byte) bool {
	detected := http.DetectContentType(data)
	switch mediaType {
	case domain.MediaTypePDF:
		return detected == domain.MediaTypePDF
	case domain.MediaTypePNG, domain.MediaTypeJPEG:
		return detected == mediaType
	case domain.MediaTypeTIFF:
		return bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))
	case domain.MediaTypeXLSX:
		return detected == "application/zip"
	default:
		return strings.HasPrefix(detected, "text/")
	}
}

// ParseSheet downloads and parses a sheet, then stores its records and grade
// assignments. The sheet must already be processing with ParseAttempts
// incremented. Storage failures are requeued until maxAttempts is reached.
func (s *sheetService) ParseSheet(ctx context.Context, sheet *domain.ResultSheet, maxAttempts int) {
	data, err := s.storage.Download(ctx, sheet.S3Bucket, sheet.S3Key)
	if err != nil {
		if sheet.ParseAttempts < maxAttempts && !errors.Is(err, domain.ErrNotFound) {
			s.requeue(ctx, sheet, fmt.Sprintf("downloading file: %v", err))
			return
		}
		s.failParsing(ctx, sheet, fmt.Sprintf("downloading file: %v", err))
		return
	}

	result, err := s.parser.Parse(ctx, domain.RawDocument{Data: data, MediaType: sheet.MediaType})
	if err != nil {
		s.failParsing(ctx, sheet, fmt.Sprintf("parsing sheet: %v", err))
		return
	}

	md := effectiveMetadata(result.Metadata, sheet.MetadataOverride)
	assignments := BuildAssignments(sheet.ID, md, result.Records)
	if err := s.recordRepo.ReplaceForSheet(ctx, sheet.ID, result.Records, assignments); err != nil {
		s.failParsing(ctx, sheet, fmt.Sprintf("storing records: %v", err))
		return
	}

	now := time.Now().UTC()
	sheet.Metadata, _ = json.Marshal(result.Metadata)
	sheet.Diagnostics, _ = json.Marshal(result.Diagnostics)
	sheet.RecordCount = result.RecordCount
	sheet.ExtractionMethod = result.Diagnostics.Method
	sheet.UsedFallback = result.Diagnostics.UsedFallback
	sheet.TextSample = result.TextSample
	sheet.ParseError = ""
	sheet.ParsedAt = &now
	sheet.Status = domain.SheetStatusCompleted
	if result.RequiresManualEntry {
		sheet.Status = domain.SheetStatusManualEntry
	}

	if err := s.sheetRepo.UpdateParseResult(ctx, sheet); err != nil {
		log.Printf("sheetService.ParseSheet: failed to save results for %s: %v", sheet.ID, err)
		s.markFailed(ctx, sheet)
		return
	}

	log.Printf("sheetService.ParseSheet: sheet %s parsed (status=%s, records=%d, method=%s, fallback=%v)",
		sheet.ID, sheet.Status, sheet.RecordCount, sheet.ExtractionMethod, sheet.UsedFallback)
}

func (s *sheetService) requeue(ctx context.Context, sheet *domain.ResultSheet, errMsg string) {
	log.Printf("sheetService.requeue: sheet %s attempt %d: %s", sheet.ID, sheet.ParseAttempts, errMsg)
	sheet.Status = domain.SheetStatusQueued
	sheet.ParseError = errMsg
	if err := s.sheetRepo.UpdateParseResult(ctx, sheet); err != nil {
		log.Printf("sheetService.requeue: failed to requeue %s: %v", sheet.ID, err)
	}
}

func (s *sheetService) failParsing(ctx context.Context, sheet *domain.ResultSheet, errMsg string) {
	log.Printf("sheetService.failParsing: sheet %s failed: %s", sheet.ID, errMsg)
	sheet.Status = domain.SheetStatusFailed
	sheet.ParseError = errMsg
	if err := s.sheetRepo.UpdateParseResult(ctx, sheet); err != nil {
		log.Printf("sheetService.failParsing: failed to update status for %s: %v", sheet.ID, err)
		s.markFailed(ctx, sheet)
	}
}

// markFailed moves a sheet out of processing when its full update could not
// be saved, so RetryParse can pick it up again.
func (s *sheetService) markFailed(ctx context.Context, sheet *domain.ResultSheet) {
	sheet.Status = domain.SheetStatusFailed
	if err := s.sheetRepo.UpdateStatus(ctx, sheet.ID, domain.SheetStatusFailed); err != nil {
		log.Printf("sheetService.markFailed: sheet %s left in processing: %v", sheet.ID, err)
	}
}

func (s *sheetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error) {
	return s.sheetRepo.GetByID(ctx, id)
}

func (s *sheetService) List(ctx context.Context, filter port.SheetFilter, offset, limit int) ([]domain.ResultSheet, int, error) {
	return s.sheetRepo.List(ctx, filter, offset, limit)
}

func (s *sheetService) ListRecords(ctx context.Context, id uuid.UUID) ([]domain.StudentResult, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParsed(sheet.Status) {
		return nil, domain.ErrSheetNotParsed
	}
	return s.recordRepo.ListRecords(ctx, id)
}

func (s *sheetService) RetryParse(ctx context.Context, id uuid.UUID) (*domain.ResultSheet, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if isBusy(sheet.Status) {
		return nil, domain.ErrSheetBusy
	}

	if err := s.sheetRepo.UpdateStatus(ctx, id, domain.SheetStatusQueued); err != nil {
		return nil, fmt.Errorf("queueing sheet for retry: %w", err)
	}
	sheet.Status = domain.SheetStatusQueued

	log.Printf("sheetService.RetryParse: sheet %s queued for re-parse", id)
	return sheet, nil
}

// SubmitManualRecords replaces a sheet's records with operator-entered ones.
// Entries go through the same canonicalization and validation as parsed
// records; invalid ids are dropped and the first entry for an id wins.
func (s *sheetService) SubmitManualRecords(ctx context.Context, id uuid.UUID, records []domain.StudentResult) (*domain.ResultSheet, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if isBusy(sheet.Status) {
		return nil, domain.ErrSheetBusy
	}

	entries := make([]domain.StudentResult, 0, len(records))
	blank := 0
	for _, r := range records {
		r.Grade = parser.NormalizeGrade(r.Grade)
		if r.Grade == "" {
			blank++
			continue
		}
		r.Remark = parser.NormalizeRemark(r.Remark)
		entries = append(entries, r)
	}

	merged := parser.Merge(entries)
	if merged.Index.Len() == 0 {
		return nil, domain.ErrNoValidRecords
	}
	valid := merged.Index.Records()

	var parsed domain.SheetMetadata
	if len(sheet.Metadata) > 0 {
		_ = json.Unmarshal(sheet.Metadata, &parsed)
	}
	md := effectiveMetadata(parsed, sheet.MetadataOverride)
	if err := s.recordRepo.ReplaceForSheet(ctx, id, valid, BuildAssignments(id, md, valid)); err != nil {
		return nil, fmt.Errorf("storing manual records: %w", err)
	}

	now := time.Now().UTC()
	sheet.Diagnostics, _ = json.Marshal(domain.ParseDiagnostics{
		Method:            domain.MethodManual,
		InvalidDiscarded:  merged.InvalidDiscarded + blank,
		DuplicatesDropped: merged.DuplicatesDropped,
	})
	sheet.Status = domain.SheetStatusCompleted
	sheet.RecordCount = len(valid)
	sheet.ExtractionMethod = domain.MethodManual
	sheet.UsedFallback = false
	sheet.ParseError = ""
	sheet.ParsedAt = &now
	if err := s.sheetRepo.UpdateParseResult(ctx, sheet); err != nil {
		return nil, fmt.Errorf("updating sheet: %w", err)
	}

	log.Printf("sheetService.SubmitManualRecords: sheet %s now has %d manual records (%d invalid, %d duplicates)",
		id, len(valid), merged.InvalidDiscarded+blank, merged.DuplicatesDropped)
	return sheet, nil
}

func (s *sheetService) Export(ctx context.Context, id uuid.UUID, format string) (*ExportOutput, error) {
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		return nil, domain.ErrUnknownExportFormat
	}

	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isParsed(sheet.Status) {
		return nil, domain.ErrSheetNotParsed
	}
	records, err := s.recordRepo.ListRecords(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing records for export: %w", err)
	}

	var parsed domain.SheetMetadata
	if len(sheet.Metadata) > 0 {
		_ = json.Unmarshal(sheet.Metadata, &parsed)
	}
	md := effectiveMetadata(parsed, sheet.MetadataOverride)

	var buf bytes.Buffer
	if err := export.Write(&buf, format, md, records); err != nil {
		return nil, fmt.Errorf("rendering export: %w", err)
	}

	name := md.CourseCode
	if name == "" {
		name = strings.TrimSuffix(sheet.FileName, filepath.Ext(sheet.FileName))
	}
	return &ExportOutput{
		FileName:    export.BuildFilename(name, format),
		ContentType: export.ContentType(format),
		Data:        buf.Bytes(),
	}, nil
}

func isBusy(status domain.SheetStatus) bool {
	return status == domain.SheetStatusQueued || status == domain.SheetStatusProcessing
}

func isParsed(status domain.SheetStatus) bool {
	return status == domain.SheetStatusCompleted || status == domain.SheetStatusManualEntry
}

// effectiveMetadata applies the non-zero fields of a stored override on top of parsed metadata.
func effectiveMetadata(parsed domain.SheetMetadata, overrideJSON json.RawMessage) domain.SheetMetadata {
	if len(overrideJSON) == 0 {
		return parsed
	}
	var o domain.SheetMetadata
	if err := json.Unmarshal(overrideJSON, &o); err != nil {
		log.Printf("sheetService.effectiveMetadata: ignoring malformed override: %v", err)
		return parsed
	}

	md := parsed
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&md.Institution, o.Institution)
	set(&md.Faculty, o.Faculty)
	set(&md.Department, o.Department)
	set(&md.DegreeProgram, o.DegreeProgram)
	set(&md.CourseCode, o.CourseCode)
	set(&md.SubjectName, o.SubjectName)
	set(&md.SemesterLabel, o.SemesterLabel)
	set(&md.AcademicYear, o.AcademicYear)
	set(&md.LevelLabel, o.LevelLabel)
	if o.Credits > 0 {
		md.Credits = o.Credits
	}
	return md
}

// BuildAssignments joins a sheet's records with its subject metadata. The
// subject is keyed by course code, then subject name, then the sheet id.
// The semester label carries the academic year so that the same semester of
// different years stays distinct.
func BuildAssignments(sheetID uuid.UUID, md domain.SheetMetadata, records []domain.StudentResult) []domain.GradeAssignment {
	subject := md.CourseCode
	if subject == "" {
		subject = md.SubjectName
	}
	if subject == "" {
		subject = sheetID.String()
	}

	semester := strings.TrimSpace(md.AcademicYear + " " + md.SemesterLabel)

	out := make([]domain.GradeAssignment, len(records))
	for i, r := range records {
		out[i] = domain.GradeAssignment{
			SheetID:        sheetID,
			RegistrationID: r.RegistrationID,
			SubjectID:      subject,
			Grade:          r.Grade,
			CreditHours:    md.Credits,
			SemesterLabel:  semester,
			LevelLabel:     md.LevelLabel,
		}
	}
	return out
}
