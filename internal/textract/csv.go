package textract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var _ TextExtractor = (*CSVExtractor)(nil)

// CSVExtractor flattens a comma-separated sheet into text, one line per row.
type CSVExtractor struct{}

// NewCSVExtractor creates a CSV extractor.
func NewCSVExtractor() *CSVExtractor { return &CSVExtractor{} }

// Extract joins non-empty cells of each row with spaces. Rows may differ in
// width and quotes are read leniently, since exported sheets rarely agree.
func (e *CSVExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	plain, err := NewPlainTextExtractor().Extract(ctx, data)
	if err != nil {
		return "", err
	}

	r := csv.NewReader(strings.NewReader(plain))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var sb strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("textract.CSVExtractor: read row: %w", err)
		}
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if c := strings.TrimSpace(cell); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			continue
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

