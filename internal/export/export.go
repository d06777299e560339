// Package export renders a sheet's parsed records as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gradeledger/internal/domain"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType returns the response media type for a format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return domain.MediaTypeXLSX
	}
	return "text/csv; charset=utf-8"
}

// Write renders records in the given format. CSV output starts with a BOM.
func Write(w io.Writer, format string, md domain.SheetMetadata, records []domain.StudentResult) error {
	switch format {
	case FormatCSV:
		if _, err := w.Write(BOM); err != nil {
			return fmt.Errorf("export.Write bom: %w", err)
		}
		cw := NewCSVWriter(w)
		if err := cw.WriteHeader(); err != nil {
			return fmt.Errorf("export.Write header: %w", err)
		}
		if err := cw.WriteRecords(md, records); err != nil {
			return fmt.Errorf("export.Write rows: %w", err)
		}
		cw.Flush()
		return cw.Error()
	case FormatXLSX:
		return WriteXLSX(w, md, records)
	default:
		return domain.ErrUnknownExportFormat
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename makes name safe for Content-Disposition: runs of other
// characters become one underscore and the result is capped at 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized name}_{YYYY-MM-DD}.{format}. An empty
// sanitized name falls back to "results".
func BuildFilename(name, format string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "results"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, time.Now().Format("2006-01-02"), format)
}
