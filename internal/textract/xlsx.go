package textract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var _ TextExtractor = (*XLSXExtractor)(nil)

// XLSXExtractor flattens every sheet of a workbook into text, one line per row.
type XLSXExtractor struct{}

// NewXLSXExtractor creates a spreadsheet extractor.
func NewXLSXExtractor() *XLSXExtractor { return &XLSXExtractor{} }

// Extract joins non-empty cells of each row with spaces.
func (e *XLSXExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("textract.XLSXExtractor: open workbook: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("textract.XLSXExtractor: read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
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
	}
	return sb.String(), nil
}
