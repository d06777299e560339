package parser

import (
	"fmt"

	"gradeledger/internal/config"
	"gradeledger/internal/domain"
	"gradeledger/internal/textract"
)

// RecordStrategy extracts student result rows from sheet text. Implementations
// must not panic on any input and must return normalized records.
type RecordStrategy interface {
	Name() string
	Extract(text string) []domain.StudentResult
}

// Strategy names.
const (
	StrategyTable    = "table"
	StrategyLineScan = "linescan"
)

// StrategyFactory creates a RecordStrategy.
type StrategyFactory func() RecordStrategy

// registry of record strategies. The table pass is registered first because it
// is the higher-precision pass when it matches.
var strategies = map[string]StrategyFactory{
	StrategyTable:    func() RecordStrategy { return NewTableStrategy() },
	StrategyLineScan: func() RecordStrategy { return NewLineScanStrategy() },
}

// DefaultStrategyOrder is the pass order used when none is configured.
var DefaultStrategyOrder = []string{StrategyTable, StrategyLineScan}

// RegisterStrategy registers a record strategy factory by name.
func RegisterStrategy(name string, factory StrategyFactory) {
	strategies[name] = factory
}

// NewStrategy creates a registered strategy by name.
func NewStrategy(name string) (RecordStrategy, error) {
	factory, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown record strategy: %s", name)
	}
	return factory(), nil
}

// NewStrategies creates strategies in the given order. An empty list yields the default order.
func NewStrategies(names []string) ([]RecordStrategy, error) {
	if len(names) == 0 {
		names = DefaultStrategyOrder
	}
	out := make([]RecordStrategy, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		s, err := NewStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// NewFromConfig builds a SheetParser with the default extractor registry and,
// when enabled, the tesseract OCR fallback.
func NewFromConfig(cfg config.ExtractionConfig) (*SheetParser, error) {
	strats, err := NewStrategies(cfg.Strategies)
	if err != nil {
		return nil, fmt.Errorf("parser.NewFromConfig: %w", err)
	}

	var ocr textract.OCREngine
	if cfg.OCR.Enabled {
		ocr = textract.NewTesseractOCR(textract.TesseractConfig{
			Tesseract: cfg.OCR.Tesseract,
			Pdftoppm:  cfg.OCR.Pdftoppm,
			Language:  cfg.OCR.Language,
			DPI:       cfg.OCR.DPI,
			PSM:       cfg.OCR.PSM,
			MaxPages:  cfg.OCR.MaxPages,
		}, textract.ExecRunner{})
	}

	acquirer := textract.NewAcquirer(textract.NewDefaultRegistry(), ocr, textract.AcquirerConfig{
		PrimaryMinChars: cfg.PrimaryMinChars,
		OCRMinChars:     cfg.OCRMinChars,
		OCRTimeout:      cfg.OCR.Timeout(),
		OCRConcurrency:  cfg.OCR.Concurrency,
		OCRCooldown:     cfg.OCR.Cooldown(),
	})

	return NewSheetParser(acquirer, strats, cfg.SampleChars), nil
}
