package textract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var _ TextExtractor = (*PDFExtractor)(nil)

// PDFExtractor reads the embedded text layer of a PDF, page by page.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract returns the text of every readable page. Scanned pages contribute nothing.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("textract.PDFExtractor: malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("textract.PDFExtractor: open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
