package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RawDocument is a caller-owned document buffer and its declared media type.
type RawDocument struct {
	Data      []byte
	MediaType string
}

// SheetMetadata holds the header fields found on a result sheet. Every field is optional.
type SheetMetadata struct {
	Institution   string  `json:"institution"`
	Faculty       string  `json:"faculty"`
	Department    string  `json:"department"`
	DegreeProgram string  `json:"degree_program"`
	CourseCode    string  `json:"course_code"`
	SubjectName   string  `json:"subject_name"`
	Credits       float64 `json:"credits"`
	SemesterLabel string  `json:"semester_label"`
	AcademicYear  string  `json:"academic_year"`
	LevelLabel    string  `json:"level_label"`
}

// StudentResult is one student's row on a result sheet.
type StudentResult struct {
	RegistrationID string `db:"registration_id" json:"registration_id"`
	Grade          string `db:"grade" json:"grade"`
	Remark         string `db:"remark" json:"remark"`
}

// ParseDiagnostics explains how a ParseResult was produced.
type ParseDiagnostics struct {
	Method            string `json:"method"`
	UsedFallback      bool   `json:"used_fallback"`
	TextLength        int    `json:"text_length"`
	TablePassCount    int    `json:"table_pass_count"`
	LineScanPassCount int    `json:"line_scan_pass_count"`
	InvalidDiscarded  int    `json:"invalid_discarded"`
	DuplicatesDropped int    `json:"duplicates_dropped"`
}

// ParseResult is the outcome of parsing one result sheet.
type ParseResult struct {
	Success             bool             `json:"success"`
	RequiresManualEntry bool             `json:"requires_manual_entry"`
	Metadata            SheetMetadata    `json:"metadata"`
	Records             []StudentResult  `json:"records"`
	RecordCount         int              `json:"record_count"`
	TextSample          string           `json:"text_sample"`
	Diagnostics         ParseDiagnostics `json:"diagnostics"`
}

// ResultSheet is an uploaded result document and its parse state.
type ResultSheet struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	FileName         string          `db:"file_name" json:"file_name"`
	MediaType        string          `db:"media_type" json:"media_type"`
	FileSize         int64           `db:"file_size" json:"file_size"`
	Fingerprint      string          `db:"fingerprint" json:"fingerprint"`
	S3Bucket         string          `db:"s3_bucket" json:"-"`
	S3Key            string          `db:"s3_key" json:"-"`
	Metadata         json.RawMessage `db:"metadata" json:"metadata"`
	MetadataOverride json.RawMessage `db:"metadata_override" json:"metadata_override"`
	Status           SheetStatus     `db:"status" json:"status"`
	RecordCount      int             `db:"record_count" json:"record_count"`
	ExtractionMethod string          `db:"extraction_method" json:"extraction_method"`
	UsedFallback     bool            `db:"used_fallback" json:"used_fallback"`
	TextSample       string          `db:"text_sample" json:"text_sample,omitempty"`
	Diagnostics      json.RawMessage `db:"diagnostics" json:"diagnostics"`
	ParseError       string          `db:"parse_error" json:"parse_error"`
	ParseAttempts    int             `db:"parse_attempts" json:"parse_attempts"`
	ParsedAt         *time.Time      `db:"parsed_at" json:"parsed_at"`
	UploadedBy       uuid.UUID       `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// GradeAssignment is one student's grade in one subject offering, joined with
// the subject's credit value and period labels.
type GradeAssignment struct {
	ID             uuid.UUID `db:"id" json:"id,omitempty"`
	SheetID        uuid.UUID `db:"sheet_id" json:"sheet_id,omitempty"`
	RegistrationID string    `db:"registration_id" json:"registration_id,omitempty"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	Grade          string    `db:"grade" json:"grade"`
	CreditHours    float64   `db:"credit_hours" json:"credit_hours"`
	SemesterLabel  string    `db:"semester_label" json:"semester_label"`
	LevelLabel     string    `db:"level_label" json:"level_label"`
	CreatedAt      time.Time `db:"created_at" json:"created_at,omitempty"`
}
