package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"gradeledger/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns is the header row shared by every export format.
var columns = []string{
	"Registration No",
	"Grade",
	"Remark",
	"Course Code",
	"Subject",
	"Credits",
	"Semester",
	"Academic Year",
	"Level",
}

// CSVWriter wraps csv.Writer for exporting sheet records.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords writes one row per record, repeating the sheet metadata on each row.
func (w *CSVWriter) WriteRecords(md domain.SheetMetadata, records []domain.StudentResult) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(md, records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func recordToRow(md domain.SheetMetadata, r domain.StudentResult) []string {
	return []string{
		r.RegistrationID,
		r.Grade,
		r.Remark,
		md.CourseCode,
		md.SubjectName,
		formatCredits(md.Credits),
		md.SemesterLabel,
		md.AcademicYear,
		md.LevelLabel,
	}
}

func formatCredits(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
