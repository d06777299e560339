package textract

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/semaphore"

	"gradeledger/internal/domain"
)

// Acquisition is the text obtained for one document and how it was produced.
type Acquisition struct {
	Text         string
	Method       string
	UsedFallback bool
	// Usable is false when neither the primary extractor nor OCR produced
	// enough text to attempt record extraction.
	Usable bool
}

// AcquirerConfig holds the thresholds and OCR limits.
type AcquirerConfig struct {
	PrimaryMinChars int
	OCRMinChars     int
	OCRTimeout      time.Duration
	OCRConcurrency  int
	OCRCooldown     time.Duration
}

// Acquirer obtains text from documents, falling back to OCR when the primary
// extractor returns too little.
type Acquirer struct {
	registry *Registry
	ocr      OCREngine
	cfg      AcquirerConfig
	sem      *semaphore.Weighted
	circuit  *circuitState
	now      func() time.Time
}

// NewAcquirer creates an Acquirer. ocr may be nil, in which case short documents
// are reported as unusable without a fallback attempt.
func NewAcquirer(registry *Registry, ocr OCREngine, cfg AcquirerConfig) *Acquirer {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	if cfg.PrimaryMinChars <= 0 {
		cfg.PrimaryMinChars = 100
	}
	if cfg.OCRMinChars <= 0 {
		cfg.OCRMinChars = 50
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 90 * time.Second
	}
	if cfg.OCRConcurrency <= 0 {
		cfg.OCRConcurrency = 1
	}
	return &Acquirer{
		registry: registry,
		ocr:      ocr,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(int64(cfg.OCRConcurrency)),
		circuit:  &circuitState{},
		now:      time.Now,
	}
}

// Acquire returns the best text for doc. Only an empty buffer is an error;
// every other failure degrades to an unusable Acquisition.
func (a *Acquirer) Acquire(ctx context.Context, doc domain.RawDocument) (Acquisition, error) {
	if len(doc.Data) == 0 {
		return Acquisition{}, domain.ErrEmptyDocument
	}

	primary, method := a.primary(ctx, doc)
	if textLen(primary) >= a.cfg.PrimaryMinChars {
		return Acquisition{Text: primary, Method: method, Usable: true}, nil
	}

	best := Acquisition{Text: primary, Method: method}
	if primary == "" {
		best.Method = domain.MethodNone
	}

	if a.ocr == nil {
		return best, nil
	}
	if resetAt, open := a.circuit.isOpen(a.now()); open {
		log.Printf("textract.Acquirer: skipping ocr (circuit open until %s)", resetAt.Format(time.RFC3339))
		return best, nil
	}

	ocrText, err := a.runOCR(ctx, doc)
	best.UsedFallback = true
	if err != nil {
		log.Printf("textract.Acquirer: ocr failed for %s: %v", doc.MediaType, err)
		if errors.Is(err, ErrOCRUnavailable) && a.cfg.OCRCooldown > 0 {
			a.circuit.open(a.now().Add(a.cfg.OCRCooldown))
		}
		return best, nil
	}

	ocrText = CleanText(ocrText)
	if textLen(ocrText) >= a.cfg.OCRMinChars {
		return Acquisition{Text: ocrText, Method: domain.MethodOCR, UsedFallback: true, Usable: true}, nil
	}
	if textLen(ocrText) > textLen(best.Text) {
		best.Text = ocrText
		best.Method = domain.MethodOCR
	}
	return best, nil
}

func (a *Acquirer) primary(ctx context.Context, doc domain.RawDocument) (string, string) {
	ext, method, ok := a.registry.Lookup(doc.MediaType)
	if !ok {
		return "", domain.MethodNone
	}
	text, err := ext.Extract(ctx, doc.Data)
	if err != nil {
		log.Printf("textract.Acquirer: %s extraction failed: %v", method, err)
		return "", method
	}
	return CleanText(text), method
}

// runOCR bounds OCR by the pool size and the timeout. An engine that ignores
// cancellation is abandoned when the deadline passes.
func (a *Acquirer) runOCR(ctx context.Context, doc domain.RawDocument) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.OCRTimeout)
	defer cancel()

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer a.sem.Release(1)
		text, err := a.ocr.Recognize(ctx, doc)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func textLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
