package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gradeledger/internal/config"
	"gradeledger/internal/domain"
	"gradeledger/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Extract metadata and records from result sheets",
	Long: `Parses each file and prints one result per file. A file whose text could
not be read is reported with requires_manual_entry set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseNoOCR       bool
	parseConcurrency int
	parseStrategies  []string
)

func init() {
	parseCmd.Flags().BoolVar(&parseNoOCR, "no-ocr", false, "Disable the tesseract fallback")
	parseCmd.Flags().IntVarP(&parseConcurrency, "concurrency", "c", 2, "Files parsed at once")
	parseCmd.Flags().StringSliceVar(&parseStrategies, "strategies", nil, "Record strategies in pass order (default table,linescan)")
	rootCmd.AddCommand(parseCmd)
}

// parsedFile is one file's outcome in the parse output.
type parsedFile struct {
	File   string              `json:"file"`
	Error  string              `json:"error,omitempty"`
	Result *domain.ParseResult `json:"result,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultExtraction()
	if parseNoOCR {
		cfg.OCR.Enabled = false
	}
	if len(parseStrategies) > 0 {
		cfg.Strategies = parseStrategies
	}

	p, err := parser.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	docs := make([]domain.RawDocument, len(args))
	for i, path := range args {
		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	items, err := p.ParseBatch(cmd.Context(), docs, parseConcurrency)
	if err != nil {
		return err
	}

	out := make([]parsedFile, len(items))
	for i, item := range items {
		out[i] = parsedFile{File: args[i], Result: item.Result}
		if item.Err != nil {
			out[i].Error = item.Err.Error()
		}
	}
	return render(cmd.OutOrStdout(), out)
}

// readDocument loads path and infers its media type from the extension.
func readDocument(path string) (domain.RawDocument, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	mediaType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return domain.RawDocument{}, fmt.Errorf("%s: %w", path, domain.ErrUnsupportedMediaType)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.RawDocument{Data: data, MediaType: mediaType}, nil
}
