package parser

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"gradeledger/internal/domain"
	"gradeledger/internal/textract"
)

// DefaultSampleChars is the length of the diagnostic text sample.
const DefaultSampleChars = 2000

// TextAcquirer obtains text from a raw document.
type TextAcquirer interface {
	Acquire(ctx context.Context, doc domain.RawDocument) (textract.Acquisition, error)
}

// SheetParser turns result-sheet documents into sorted, deduplicated records.
type SheetParser struct {
	acquirer    TextAcquirer
	strategies  []RecordStrategy
	sampleChars int
}

// NewSheetParser creates a parser. The strategies run in order and the first
// one to produce a registration id wins.
func NewSheetParser(acquirer TextAcquirer, strategies []RecordStrategy, sampleChars int) *SheetParser {
	if len(strategies) == 0 {
		strategies = []RecordStrategy{NewTableStrategy(), NewLineScanStrategy()}
	}
	if sampleChars <= 0 {
		sampleChars = DefaultSampleChars
	}
	return &SheetParser{acquirer: acquirer, strategies: strategies, sampleChars: sampleChars}
}

// Parse acquires text from doc and extracts metadata and records. Content
// problems never produce an error: a document without usable text or without
// any valid record comes back with RequiresManualEntry set. Only an unreadable
// buffer is reported as an error.
func (p *SheetParser) Parse(ctx context.Context, doc domain.RawDocument) (*domain.ParseResult, error) {
	acq, err := p.acquirer.Acquire(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parser.SheetParser.Parse: %w", err)
	}

	result := &domain.ParseResult{
		Metadata:   ExtractMetadata(acq.Text),
		Records:    []domain.StudentResult{},
		TextSample: sample(acq.Text, p.sampleChars),
		Diagnostics: domain.ParseDiagnostics{
			Method:       acq.Method,
			UsedFallback: acq.UsedFallback,
			TextLength:   len([]rune(acq.Text)),
		},
	}

	if !acq.Usable {
		log.Printf("parser.SheetParser.Parse: no usable text (method=%s, fallback=%v), manual entry required",
			acq.Method, acq.UsedFallback)
		result.RequiresManualEntry = true
		return result, nil
	}

	merged := p.ExtractRecords(acq.Text)
	p.fillDiagnostics(&result.Diagnostics, merged)

	result.Records = merged.Index.Records()
	result.RecordCount = len(result.Records)
	if result.RecordCount == 0 {
		log.Printf("parser.SheetParser.Parse: %d chars of text but no valid records, manual entry required",
			result.Diagnostics.TextLength)
		result.RequiresManualEntry = true
		return result, nil
	}

	result.Success = true
	return result, nil
}

// ExtractRecords runs every strategy over text and merges their output.
func (p *SheetParser) ExtractRecords(text string) MergeResult {
	passes := make([][]domain.StudentResult, len(p.strategies))
	for i, s := range p.strategies {
		passes[i] = runStrategy(s, text)
	}
	return Merge(passes...)
}

// runStrategy isolates a strategy so that a bug in one pass cannot take down the parse.
func runStrategy(s RecordStrategy, text string) (out []domain.StudentResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("parser.runStrategy: %s panicked: %v", s.Name(), r)
			out = nil
		}
	}()
	return s.Extract(text)
}

func (p *SheetParser) fillDiagnostics(d *domain.ParseDiagnostics, merged MergeResult) {
	for i, s := range p.strategies {
		switch s.Name() {
		case StrategyTable:
			d.TablePassCount = merged.PassCounts[i]
		case StrategyLineScan:
			d.LineScanPassCount = merged.PassCounts[i]
		}
	}
	d.InvalidDiscarded = merged.InvalidDiscarded
	d.DuplicatesDropped = merged.DuplicatesDropped
}

// BatchItem is the outcome of one document in ParseBatch.
type BatchItem struct {
	Result *domain.ParseResult
	Err    error
}

// ParseBatch parses independent documents concurrently, at most limit at a time.
// Per-document errors are reported in the matching item; the returned error is
// non-nil only when ctx is cancelled.
func (p *SheetParser) ParseBatch(ctx context.Context, docs []domain.RawDocument, limit int) ([]BatchItem, error) {
	items := make([]BatchItem, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range docs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(gctx, docs[i])
			items[i] = BatchItem{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, fmt.Errorf("parser.SheetParser.ParseBatch: %w", err)
	}
	return items, nil
}

func sample(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
