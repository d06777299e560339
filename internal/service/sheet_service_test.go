package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradeledger/internal/config"
	"gradeledger/internal/domain"
	"gradeledger/internal/export"
	"gradeledger/internal/port"
	"gradeledger/internal/service"
	"gradeledger/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "us-east-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 1,
	}
}

type sheetDeps struct {
	sheets  *mocks.MockSheetRepo
	records *mocks.MockRecordRepo
	parser  *mocks.MockDocumentParser
	storage *mocks.MockObjectStorage
	svc     service.SheetService
}

func newSheetDeps() *sheetDeps {
	d := &sheetDeps{
		sheets:  new(mocks.MockSheetRepo),
		records: new(mocks.MockRecordRepo),
		parser:  new(mocks.MockDocumentParser),
		storage: new(mocks.MockObjectStorage),
	}
	cfg := testS3Config()
	d.svc = service.NewSheetService(d.sheets, d.records, d.parser, d.storage, &cfg)
	return d
}

const sheetText = "ICT1212 Database Systems\n1 UWU/ICT/22/001 A\n2 UWU/ICT/22/002 B+\n"

func textUpload(name, content string) *service.UploadSheetInput {
	return &service.UploadSheetInput{
		UploadedBy: uuid.New(),
		FileName:   name,
		Size:       int64(len(content)),
		File:       strings.NewReader(content),
	}
}

func TestSheetService_Upload_Success(t *testing.T) {
	d := newSheetDeps()
	input := textUpload("results.txt", sheetText)
	input.Override = &domain.SheetMetadata{CourseCode: "ICT1212", Credits: 3}
	fp := service.Fingerprint([]byte(sheetText))

	d.sheets.On("GetByFingerprint", mock.Anything, fp).Return(nil, domain.ErrSheetNotFound)
	d.sheets.On("Create", mock.Anything, mock.AnythingOfType("*domain.ResultSheet")).Return(nil)
	d.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && strings.HasPrefix(in.Key, "sheets/") &&
			strings.HasSuffix(in.Key, "/results.txt") && in.MediaType == domain.MediaTypePlainText && in.Fingerprint == fp
	})).Return(&port.UploadOutput{ETag: "abc"}, nil)
	d.sheets.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.SheetStatusQueued).Return(nil)

	res, err := d.svc.Upload(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, domain.SheetStatusQueued, res.Sheet.Status)
	assert.Equal(t, fp, res.Sheet.Fingerprint)
	assert.Equal(t, int64(len(sheetText)), res.Sheet.FileSize)
	assert.Equal(t, "results.txt", res.Sheet.FileName)

	var override domain.SheetMetadata
	require.NoError(t, json.Unmarshal(res.Sheet.MetadataOverride, &override))
	assert.Equal(t, "ICT1212", override.CourseCode)
	assert.Equal(t, 3.0, override.Credits)

	d.sheets.AssertExpectations(t)
	d.storage.AssertExpectations(t)
}

func TestSheetService_Upload_DuplicateReturnsExisting(t *testing.T) {
	d := newSheetDeps()
	existing := &domain.ResultSheet{ID: uuid.New(), Status: domain.SheetStatusCompleted}
	d.sheets.On("GetByFingerprint", mock.Anything, mock.AnythingOfType("string")).Return(existing, nil)

	res, err := d.svc.Upload(context.Background(), textUpload("again.txt", sheetText))

	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, existing, res.Sheet)
	d.sheets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSheetService_Upload_Rejections(t *testing.T) {
	big := strings.Repeat("x", 1024*1024+1)
	tests := []struct {
		name  string
		input *service.UploadSheetInput
		want  error
	}{
		{"unsupported extension", textUpload("results.docx", sheetText), domain.ErrUnsupportedMediaType},
		{"declared size too large", &service.UploadSheetInput{FileName: "a.txt", Size: 2 * 1024 * 1024, File: strings.NewReader("x")}, domain.ErrFileTooLarge},
		{"actual size too large", &service.UploadSheetInput{FileName: "a.txt", File: strings.NewReader(big)}, domain.ErrFileTooLarge},
		{"empty", textUpload("empty.txt", ""), domain.ErrEmptyDocument},
		{"content does not match extension", textUpload("fake.pdf", sheetText), domain.ErrUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSheetDeps()
			_, err := d.svc.Upload(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
			d.sheets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSheetService_Upload_PDFMagicAccepted(t *testing.T) {
	d := newSheetDeps()
	pdf := "%PDF-1.4 test content that is long enough for detection"

	d.sheets.On("GetByFingerprint", mock.Anything, mock.Anything).Return(nil, domain.ErrSheetNotFound)
	d.sheets.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	d.sheets.On("UpdateStatus", mock.Anything, mock.Anything, domain.SheetStatusQueued).Return(nil)

	res, err := d.svc.Upload(context.Background(), textUpload("sheet.PDF", pdf))

	require.NoError(t, err)
	assert.Equal(t, domain.MediaTypePDF, res.Sheet.MediaType)
}

func TestSheetService_Upload_StorageFailure(t *testing.T) {
	d := newSheetDeps()
	d.sheets.On("GetByFingerprint", mock.Anything, mock.Anything).Return(nil, domain.ErrSheetNotFound)
	d.sheets.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))
	d.sheets.On("UpdateStatus", mock.Anything, mock.Anything, domain.SheetStatusFailed).Return(nil)

	_, err := d.svc.Upload(context.Background(), textUpload("results.txt", sheetText))

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	d.sheets.AssertCalled(t, "UpdateStatus", mock.Anything, mock.Anything, domain.SheetStatusFailed)
}

func TestSheetService_Upload_FingerprintLookupError(t *testing.T) {
	d := newSheetDeps()
	d.sheets.On("GetByFingerprint", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := d.svc.Upload(context.Background(), textUpload("results.txt", sheetText))

	assert.Error(t, err)
	d.sheets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func processingSheet(override string) *domain.ResultSheet {
	return &domain.ResultSheet{
		ID:               uuid.New(),
		MediaType:        domain.MediaTypePlainText,
		S3Bucket:         "test-bucket",
		S3Key:            "sheets/x/results.txt",
		MetadataOverride: json.RawMessage(override),
		Status:           domain.SheetStatusProcessing,
		ParseAttempts:    1,
	}
}

func parsedResult() *domain.ParseResult {
	return &domain.ParseResult{
		Success: true,
		Metadata: domain.SheetMetadata{
			CourseCode:    "ICT1212",
			Credits:       3,
			SemesterLabel: "Semester 2",
			AcademicYear:  "2022/2023",
			LevelLabel:    "Level 1",
		},
		Records: []domain.StudentResult{
			{RegistrationID: "UWU/ICT/22/001", Grade: "A"},
			{RegistrationID: "UWU/ICT/22/002", Grade: "B+"},
		},
		RecordCount: 2,
		TextSample:  sheetText,
		Diagnostics: domain.ParseDiagnostics{Method: domain.MethodPlainText, TablePassCount: 2},
	}
}

func TestSheetService_ParseSheet_Completed(t *testing.T) {
	d := newSheetDeps()
	sheet := processingSheet(`{"course_code":"ICT9999","credits":4}`)

	d.storage.On("Download", mock.Anything, "test-bucket", sheet.S3Key).Return([]byte(sheetText), nil)
	d.parser.On("Parse", mock.Anything, domain.RawDocument{Data: []byte(sheetText), MediaType: domain.MediaTypePlainText}).
		Return(parsedResult(), nil)
	d.records.On("ReplaceForSheet", mock.Anything, sheet.ID, parsedResult().Records,
		mock.MatchedBy(func(as []domain.GradeAssignment) bool {
			return len(as) == 2 &&
				as[0].SubjectID == "ICT9999" &&
				as[0].CreditHours == 4 &&
				as[0].SemesterLabel == "2022/2023 Semester 2" &&
				as[0].LevelLabel == "Level 1" &&
				as[1].RegistrationID == "UWU/ICT/22/002" &&
				as[1].SheetID == sheet.ID
		})).Return(nil)
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(nil)

	d.svc.ParseSheet(context.Background(), sheet, 3)

	assert.Equal(t, domain.SheetStatusCompleted, sheet.Status)
	assert.Equal(t, 2, sheet.RecordCount)
	assert.Equal(t, domain.MethodPlainText, sheet.ExtractionMethod)
	assert.NotNil(t, sheet.ParsedAt)
	assert.Empty(t, sheet.ParseError)

	var md domain.SheetMetadata
	require.NoError(t, json.Unmarshal(sheet.Metadata, &md))
	assert.Equal(t, "ICT1212", md.CourseCode, "stored metadata is the parsed one")
	d.records.AssertExpectations(t)
}

func TestSheetService_ParseSheet_ManualEntry(t *testing.T) {
	d := newSheetDeps()
	sheet := processingSheet("{}")
	manual := &domain.ParseResult{
		RequiresManualEntry: true,
		Records:             []domain.StudentResult{},
		Diagnostics:         domain.ParseDiagnostics{Method: domain.MethodOCR, UsedFallback: true},
	}

	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte("x"), nil)
	d.parser.On("Parse", mock.Anything, mock.Anything).Return(manual, nil)
	d.records.On("ReplaceForSheet", mock.Anything, sheet.ID, manual.Records, mock.Anything).Return(nil)
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(nil)

	d.svc.ParseSheet(context.Background(), sheet, 3)

	assert.Equal(t, domain.SheetStatusManualEntry, sheet.Status)
	assert.True(t, sheet.UsedFallback)
	assert.Equal(t, domain.MethodOCR, sheet.ExtractionMethod)
}

func TestSheetService_ParseSheet_DownloadFailure(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		err      error
		want     domain.SheetStatus
	}{
		{"transient error is requeued", 1, errors.New("timeout"), domain.SheetStatusQueued},
		{"retries exhausted", 3, errors.New("timeout"), domain.SheetStatusFailed},
		{"missing object fails at once", 1, domain.ErrNotFound, domain.SheetStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSheetDeps()
			sheet := processingSheet("{}")
			sheet.ParseAttempts = tt.attempts

			d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(nil)

			d.svc.ParseSheet(context.Background(), sheet, 3)

			assert.Equal(t, tt.want, sheet.Status)
			assert.Contains(t, sheet.ParseError, "downloading file")
			d.parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
		})
	}
}

func TestSheetService_ParseSheet_ParserError(t *testing.T) {
	d := newSheetDeps()
	sheet := processingSheet("{}")

	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte{}, nil)
	d.parser.On("Parse", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyDocument)
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(nil)

	d.svc.ParseSheet(context.Background(), sheet, 3)

	assert.Equal(t, domain.SheetStatusFailed, sheet.Status)
	assert.Contains(t, sheet.ParseError, domain.ErrEmptyDocument.Error())
	d.records.AssertNotCalled(t, "ReplaceForSheet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSheetService_ParseSheet_StoreFailure(t *testing.T) {
	d := newSheetDeps()
	sheet := processingSheet("{}")

	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte(sheetText), nil)
	d.parser.On("Parse", mock.Anything, mock.Anything).Return(parsedResult(), nil)
	d.records.On("ReplaceForSheet", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("tx aborted"))
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(nil)

	d.svc.ParseSheet(context.Background(), sheet, 3)

	assert.Equal(t, domain.SheetStatusFailed, sheet.Status)
	assert.Contains(t, sheet.ParseError, "storing records")
}

func TestSheetService_ParseSheet_SaveFailureLeavesSheetRetryable(t *testing.T) {
	d := newSheetDeps()
	sheet := processingSheet("{}")

	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte(sheetText), nil)
	d.parser.On("Parse", mock.Anything, mock.Anything).Return(parsedResult(), nil)
	d.records.On("ReplaceForSheet", mock.Anything, sheet.ID, mock.Anything, mock.Anything).Return(nil)
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(errors.New("connection reset"))
	d.sheets.On("UpdateStatus", mock.Anything, sheet.ID, domain.SheetStatusFailed).Return(nil).Once()

	d.svc.ParseSheet(context.Background(), sheet, 3)

	assert.Equal(t, domain.SheetStatusFailed, sheet.Status)
	d.sheets.AssertExpectations(t)

	d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)
	d.sheets.On("UpdateStatus", mock.Anything, sheet.ID, domain.SheetStatusQueued).Return(nil)

	got, err := d.svc.RetryParse(context.Background(), sheet.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.SheetStatusQueued, got.Status)
}

func TestSheetService_ParseSheet_FailureUpdateFallsBackToStatus(t *testing.T) {
	d := newSheetDeps()
	sheet := processingSheet("{}")

	d.storage.On("Download", mock.Anything, mock.Anything, mock.Anything).Return([]byte{}, nil)
	d.parser.On("Parse", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyDocument)
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(errors.New("connection reset"))
	d.sheets.On("UpdateStatus", mock.Anything, sheet.ID, domain.SheetStatusFailed).Return(nil)

	d.svc.ParseSheet(context.Background(), sheet, 3)

	assert.Equal(t, domain.SheetStatusFailed, sheet.Status)
	d.sheets.AssertExpectations(t)
}

func TestSheetService_RetryParse(t *testing.T) {
	d := newSheetDeps()
	sheet := &domain.ResultSheet{ID: uuid.New(), Status: domain.SheetStatusManualEntry}
	d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)
	d.sheets.On("UpdateStatus", mock.Anything, sheet.ID, domain.SheetStatusQueued).Return(nil)

	got, err := d.svc.RetryParse(context.Background(), sheet.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.SheetStatusQueued, got.Status)
}

func TestSheetService_RetryParse_Busy(t *testing.T) {
	for _, status := range []domain.SheetStatus{domain.SheetStatusQueued, domain.SheetStatusProcessing} {
		d := newSheetDeps()
		sheet := &domain.ResultSheet{ID: uuid.New(), Status: status}
		d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)

		_, err := d.svc.RetryParse(context.Background(), sheet.ID)

		assert.ErrorIs(t, err, domain.ErrSheetBusy, string(status))
	}
}

func TestSheetService_RetryParse_NotFound(t *testing.T) {
	d := newSheetDeps()
	id := uuid.New()
	d.sheets.On("GetByID", mock.Anything, id).Return(nil, domain.ErrSheetNotFound)

	_, err := d.svc.RetryParse(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrSheetNotFound)
}

func TestSheetService_SubmitManualRecords(t *testing.T) {
	d := newSheetDeps()
	sheet := &domain.ResultSheet{
		ID:               uuid.New(),
		Status:           domain.SheetStatusManualEntry,
		Metadata:         json.RawMessage(`{"course_code":"ICT1212","credits":3}`),
		MetadataOverride: json.RawMessage("{}"),
	}
	entries := []domain.StudentResult{
		{RegistrationID: "uwu/ict/22/002", Grade: " b+ ", Remark: "ca fail"},
		{RegistrationID: "UWU/ICT/22/001", Grade: "A"},
		{RegistrationID: "UWU/ICT/22/001", Grade: "F"},
		{RegistrationID: "not-an-id", Grade: "A"},
		{RegistrationID: "UWU/ICT/22/003", Grade: ""},
	}
	want := []domain.StudentResult{
		{RegistrationID: "UWU/ICT/22/001", Grade: "A"},
		{RegistrationID: "UWU/ICT/22/002", Grade: "B+", Remark: "CA Fail"},
	}

	d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)
	d.records.On("ReplaceForSheet", mock.Anything, sheet.ID, want, mock.MatchedBy(func(as []domain.GradeAssignment) bool {
		return len(as) == 2 && as[0].SubjectID == "ICT1212" && as[0].CreditHours == 3
	})).Return(nil)
	d.sheets.On("UpdateParseResult", mock.Anything, sheet).Return(nil)

	got, err := d.svc.SubmitManualRecords(context.Background(), sheet.ID, entries)

	require.NoError(t, err)
	assert.Equal(t, domain.SheetStatusCompleted, got.Status)
	assert.Equal(t, domain.MethodManual, got.ExtractionMethod)
	assert.Equal(t, 2, got.RecordCount)

	var diag domain.ParseDiagnostics
	require.NoError(t, json.Unmarshal(got.Diagnostics, &diag))
	assert.Equal(t, 2, diag.InvalidDiscarded)
	assert.Equal(t, 1, diag.DuplicatesDropped)
}

func TestSheetService_SubmitManualRecords_NoValidRecords(t *testing.T) {
	d := newSheetDeps()
	sheet := &domain.ResultSheet{ID: uuid.New(), Status: domain.SheetStatusManualEntry}
	d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)

	_, err := d.svc.SubmitManualRecords(context.Background(), sheet.ID, []domain.StudentResult{
		{RegistrationID: "bad", Grade: "A"},
	})

	assert.ErrorIs(t, err, domain.ErrNoValidRecords)
	d.records.AssertNotCalled(t, "ReplaceForSheet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSheetService_ListRecords_NotParsed(t *testing.T) {
	d := newSheetDeps()
	sheet := &domain.ResultSheet{ID: uuid.New(), Status: domain.SheetStatusQueued}
	d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)

	_, err := d.svc.ListRecords(context.Background(), sheet.ID)

	assert.ErrorIs(t, err, domain.ErrSheetNotParsed)
}

func TestSheetService_Export(t *testing.T) {
	d := newSheetDeps()
	sheet := &domain.ResultSheet{
		ID:               uuid.New(),
		FileName:         "results.txt",
		Status:           domain.SheetStatusCompleted,
		Metadata:         json.RawMessage(`{"course_code":"ICT1212"}`),
		MetadataOverride: json.RawMessage("{}"),
	}
	d.sheets.On("GetByID", mock.Anything, sheet.ID).Return(sheet, nil)
	d.records.On("ListRecords", mock.Anything, sheet.ID).Return(parsedResult().Records, nil)

	out, err := d.svc.Export(context.Background(), sheet.ID, "")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.FileName, "ICT1212_"))
	assert.True(t, strings.HasSuffix(out.FileName, ".csv"))
	assert.True(t, bytes.HasPrefix(out.Data, export.BOM))
	assert.Contains(t, string(out.Data), "UWU/ICT/22/002,B+")
}

func TestSheetService_Export_UnknownFormat(t *testing.T) {
	d := newSheetDeps()

	_, err := d.svc.Export(context.Background(), uuid.New(), "pdf")

	assert.ErrorIs(t, err, domain.ErrUnknownExportFormat)
	d.sheets.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBuildAssignments_SubjectFallbacks(t *testing.T) {
	sheetID := uuid.New()
	records := []domain.StudentResult{{RegistrationID: "UWU/ICT/22/001", Grade: "A"}}

	byName := service.BuildAssignments(sheetID, domain.SheetMetadata{SubjectName: "Networks", SemesterLabel: "Semester 1"}, records)
	assert.Equal(t, "Networks", byName[0].SubjectID)
	assert.Equal(t, "Semester 1", byName[0].SemesterLabel)

	bySheet := service.BuildAssignments(sheetID, domain.SheetMetadata{}, records)
	assert.Equal(t, sheetID.String(), bySheet[0].SubjectID)
	assert.Empty(t, bySheet[0].SemesterLabel)

	assert.Empty(t, service.BuildAssignments(sheetID, domain.SheetMetadata{}, nil))
}
