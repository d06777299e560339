package textract

import (
	"context"
	"strings"
	"unicode/utf8"
)

var _ TextExtractor = (*PlainTextExtractor)(nil)

// PlainTextExtractor treats the buffer as UTF-8 text.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a plain text extractor.
func NewPlainTextExtractor() *PlainTextExtractor { return &PlainTextExtractor{} }

// Extract returns the buffer as text, replacing invalid UTF-8 sequences.
func (e *PlainTextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, " ")
	}
	return strings.TrimPrefix(s, "\uFEFF"), nil
}
