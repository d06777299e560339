package textract

import (
	"context"
	"sync"

	"gradeledger/internal/domain"
)

// TextExtractor pulls text out of a document buffer without OCR.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// OCREngine recognizes text from a document that has no usable embedded text.
type OCREngine interface {
	Recognize(ctx context.Context, doc domain.RawDocument) (string, error)
}

// Registry maps media types to primary extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]TextExtractor
	methods    map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: map[string]TextExtractor{},
		methods:    map[string]string{},
	}
}

// NewDefaultRegistry returns a registry with the PDF, spreadsheet, CSV and plain text extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.MediaTypePDF, domain.MethodPDFText, NewPDFExtractor())
	r.Register(domain.MediaTypeXLSX, domain.MethodXLSXText, NewXLSXExtractor())
	r.Register(domain.MediaTypePlainText, domain.MethodPlainText, NewPlainTextExtractor())
	r.Register(domain.MediaTypeCSV, domain.MethodCSVText, NewCSVExtractor())
	return r
}

// Register binds an extractor and the method name it reports to a media type.
func (r *Registry) Register(mediaType, method string, ext TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[mediaType] = ext
	r.methods[mediaType] = method
}

// Lookup returns the extractor for a media type, or false when none is registered.
func (r *Registry) Lookup(mediaType string) (TextExtractor, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.extractors[mediaType]
	if !ok {
		return nil, "", false
	}
	return ext, r.methods[mediaType], true
}
