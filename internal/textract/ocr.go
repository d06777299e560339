package textract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gradeledger/internal/domain"
)

var (
	// ErrOCRUnavailable means the OCR binaries could not be started.
	ErrOCRUnavailable = errors.New("ocr engine unavailable")
	// ErrOCRUnsupported means the media type cannot be rasterized for OCR.
	ErrOCRUnsupported = errors.New("media type not supported by ocr")
)

// TesseractConfig configures the tesseract/pdftoppm collaborator.
type TesseractConfig struct {
	Tesseract string
	Pdftoppm  string
	Language  string
	DPI       int
	PSM       int
	MaxPages  int
}

var _ OCREngine = (*TesseractOCR)(nil)

// TesseractOCR shells out to tesseract, rasterizing PDFs with pdftoppm first.
type TesseractOCR struct {
	cfg    TesseractConfig
	runner Runner
}

// NewTesseractOCR creates a tesseract engine. A nil runner uses os/exec.
func NewTesseractOCR(cfg TesseractConfig, runner Runner) *TesseractOCR {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &TesseractOCR{cfg: cfg, runner: runner}
}

// Recognize returns the recognized text of an image or scanned PDF.
func (t *TesseractOCR) Recognize(ctx context.Context, doc domain.RawDocument) (string, error) {
	switch {
	case domain.IsImageMediaType(doc.MediaType):
		return t.tesseract(ctx, doc.Data, "stdin")
	case doc.MediaType == domain.MediaTypePDF:
		return t.recognizePDF(ctx, doc.Data)
	default:
		return "", fmt.Errorf("textract.TesseractOCR: %s: %w", doc.MediaType, ErrOCRUnsupported)
	}
}

func (t *TesseractOCR) recognizePDF(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "gradeledger-ocr-*")
	if err != nil {
		return "", fmt.Errorf("textract.TesseractOCR: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return "", fmt.Errorf("textract.TesseractOCR: write input: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	args := []string{"-png", "-r", strconv.Itoa(t.cfg.DPI)}
	if t.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(t.cfg.MaxPages))
	}
	args = append(args, input, prefix)
	if _, _, err := t.runner.Run(ctx, nil, t.cfg.Pdftoppm, args...); err != nil {
		return "", t.wrapExecErr("pdftoppm", err)
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", fmt.Errorf("textract.TesseractOCR: list pages: %w", err)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(pages)

	var parts []string
	for _, page := range pages {
		text, err := t.tesseract(ctx, nil, page)
		if err != nil {
			return "", err
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (t *TesseractOCR) tesseract(ctx context.Context, stdin []byte, input string) (string, error) {
	args := []string{input, "stdout", "-l", t.cfg.Language, "--psm", strconv.Itoa(t.cfg.PSM)}
	out, _, err := t.runner.Run(ctx, stdin, t.cfg.Tesseract, args...)
	if err != nil {
		return "", t.wrapExecErr("tesseract", err)
	}
	return string(out), nil
}

func (t *TesseractOCR) wrapExecErr(step string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("textract.TesseractOCR: %s: %w: %v", step, ErrOCRUnavailable, err)
	}
	return fmt.Errorf("textract.TesseractOCR: %s: %w", step, err)
}
