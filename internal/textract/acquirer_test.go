package textract_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gradeledger/internal/domain"
	"gradeledger/internal/textract"
	"gradeledger/mocks"
)

const sheetText = `Uva Wellassa University of Sri Lanka
Faculty of Applied Sciences
Course Code: ICT 1212  Credits: 3
No  Registration No   Grade  Remarks
1   UWU/ICT/22/001    A
2   UWU/ICT/22/002    B+
`

func newAcquirer(registry *textract.Registry, ocr textract.OCREngine) *textract.Acquirer {
	return textract.NewAcquirer(registry, ocr, textract.AcquirerConfig{
		PrimaryMinChars: 100,
		OCRMinChars:     50,
		OCRTimeout:      time.Second,
		OCRConcurrency:  2,
		OCRCooldown:     time.Minute,
	})
}

func TestAcquire_EmptyBuffer(t *testing.T) {
	a := newAcquirer(nil, nil)

	_, err := a.Acquire(context.Background(), domain.RawDocument{MediaType: domain.MediaTypePDF})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestAcquire_PrimaryTextLongEnough(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	a := newAcquirer(nil, ocr)

	got, err := a.Acquire(context.Background(), domain.RawDocument{
		Data:      []byte(sheetText),
		MediaType: domain.MediaTypePlainText,
	})

	require.NoError(t, err)
	assert.True(t, got.Usable)
	assert.False(t, got.UsedFallback)
	assert.Equal(t, domain.MethodPlainText, got.Method)
	assert.Contains(t, got.Text, "UWU/ICT/22/001 A")
	ocr.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestAcquire_ShortPrimaryUsesOCR(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	doc := domain.RawDocument{Data: []byte("scanned"), MediaType: domain.MediaTypePlainText}
	ocr.On("Recognize", mock.Anything, doc).Return(sheetText, nil)
	a := newAcquirer(nil, ocr)

	got, err := a.Acquire(context.Background(), doc)

	require.NoError(t, err)
	assert.True(t, got.Usable)
	assert.True(t, got.UsedFallback)
	assert.Equal(t, domain.MethodOCR, got.Method)
	ocr.AssertExpectations(t)
}

func TestAcquire_BothShortRequiresManualEntry(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	doc := domain.RawDocument{Data: []byte("Result sheet"), MediaType: domain.MediaTypePlainText}
	ocr.On("Recognize", mock.Anything, doc).Return("UWU/ICT/22/001 A", nil)
	a := newAcquirer(nil, ocr)

	got, err := a.Acquire(context.Background(), doc)

	require.NoError(t, err)
	assert.False(t, got.Usable)
	assert.True(t, got.UsedFallback)
	// the longer of the two short texts is kept for diagnostics
	assert.Equal(t, "UWU/ICT/22/001 A", got.Text)
}

func TestAcquire_ImageGoesStraightToOCR(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	doc := domain.RawDocument{Data: []byte{0x89, 'P', 'N', 'G'}, MediaType: domain.MediaTypePNG}
	ocr.On("Recognize", mock.Anything, doc).Return(sheetText, nil)
	a := newAcquirer(nil, ocr)

	got, err := a.Acquire(context.Background(), doc)

	require.NoError(t, err)
	assert.True(t, got.Usable)
	assert.Equal(t, domain.MethodOCR, got.Method)
}

func TestAcquire_PrimaryErrorFallsBackToOCR(t *testing.T) {
	primary := new(mocks.MockTextExtractor)
	primary.On("Extract", mock.Anything, mock.Anything).Return("", errors.New("corrupt"))
	registry := textract.NewRegistry()
	registry.Register(domain.MediaTypePDF, domain.MethodPDFText, primary)

	ocr := new(mocks.MockOCREngine)
	ocr.On("Recognize", mock.Anything, mock.Anything).Return(sheetText, nil)
	a := newAcquirer(registry, ocr)

	got, err := a.Acquire(context.Background(), domain.RawDocument{Data: []byte("%PDF"), MediaType: domain.MediaTypePDF})

	require.NoError(t, err)
	assert.True(t, got.Usable)
	assert.Equal(t, domain.MethodOCR, got.Method)
}

func TestAcquire_NoOCREngine(t *testing.T) {
	a := newAcquirer(nil, nil)

	got, err := a.Acquire(context.Background(), domain.RawDocument{Data: []byte{1, 2, 3}, MediaType: domain.MediaTypeJPEG})

	require.NoError(t, err)
	assert.False(t, got.Usable)
	assert.False(t, got.UsedFallback)
	assert.Equal(t, domain.MethodNone, got.Method)
}

func TestAcquire_OCRTimeout(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	ocr.On("Recognize", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(300 * time.Millisecond) }).
		Return(sheetText, nil)
	a := textract.NewAcquirer(nil, ocr, textract.AcquirerConfig{OCRTimeout: 20 * time.Millisecond})

	start := time.Now()
	got, err := a.Acquire(context.Background(), domain.RawDocument{Data: []byte{1}, MediaType: domain.MediaTypePNG})

	require.NoError(t, err)
	assert.False(t, got.Usable)
	assert.True(t, got.UsedFallback)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestAcquire_UnavailableOCROpensCircuit(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	unavailable := fmt.Errorf("tesseract: %w", textract.ErrOCRUnavailable)
	ocr.On("Recognize", mock.Anything, mock.Anything).Return("", unavailable).Once()
	a := newAcquirer(nil, ocr)
	doc := domain.RawDocument{Data: []byte{1}, MediaType: domain.MediaTypePNG}

	first, err := a.Acquire(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, first.Usable)
	assert.True(t, first.UsedFallback)

	second, err := a.Acquire(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, second.Usable)
	assert.False(t, second.UsedFallback)
	ocr.AssertNumberOfCalls(t, "Recognize", 1)
}

func TestXLSXExtractor_RowsBecomeLines(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"No", "Registration No", "Grade", "Remarks"},
		{1, "UWU/ICT/22/001", "A", ""},
		{2, "UWU/ICT/22/002", "AB", "Medical"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	text, err := textract.NewXLSXExtractor().Extract(context.Background(), buf.Bytes())

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1 UWU/ICT/22/001 A", lines[1])
	assert.Equal(t, "2 UWU/ICT/22/002 AB Medical", lines[2])
}

func TestCSVExtractor_RowsBecomeLines(t *testing.T) {
	in := "\uFEFFNo,Registration No,Grade,Remarks\n1, UWU/ICT/22/001 ,A,\n,,,\n2,UWU/ICT/22/002,NE,\"CA fail\"\n3,UWU/ICT/22/003,B\n"

	text, err := textract.NewCSVExtractor().Extract(context.Background(), []byte(in))

	require.NoError(t, err)
	assert.Equal(t, "No Registration No Grade Remarks\n1 UWU/ICT/22/001 A\n2 UWU/ICT/22/002 NE CA fail\n3 UWU/ICT/22/003 B\n", text)
}

func TestDefaultRegistry_CSVUsesCSVExtractor(t *testing.T) {
	ext, method, ok := textract.NewDefaultRegistry().Lookup(domain.MediaTypeCSV)

	require.True(t, ok)
	assert.Equal(t, domain.MethodCSVText, method)
	assert.IsType(t, &textract.CSVExtractor{}, ext)
}

func TestPDFExtractor_RejectsGarbage(t *testing.T) {
	_, err := textract.NewPDFExtractor().Extract(context.Background(), []byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	in := "Faculty of  Science\r\n\r\n1\tUWU–ICT   Aﬁ\n   \n"
	assert.Equal(t, "Faculty of Science\n1 UWU-ICT Afi", textract.CleanText(in))
}

func TestTesseractOCR_Image(t *testing.T) {
	runner := new(mocks.MockRunner)
	data := []byte{0xff, 0xd8}
	runner.On("Run", mock.Anything, data, "tesseract", []string{"stdin", "stdout", "-l", "eng", "--psm", "6"}).
		Return([]byte("recognized"), nil, nil)
	engine := textract.NewTesseractOCR(textract.TesseractConfig{}, runner)

	text, err := engine.Recognize(context.Background(), domain.RawDocument{Data: data, MediaType: domain.MediaTypeJPEG})

	require.NoError(t, err)
	assert.Equal(t, "recognized", text)
	runner.AssertExpectations(t)
}

func TestTesseractOCR_ScannedPDF(t *testing.T) {
	runner := new(mocks.MockRunner)
	pdf := []byte("%PDF-1.4 scanned")
	var prefix string
	runner.On("Run", mock.Anything, mock.Anything, "pdftoppm", mock.MatchedBy(func(args []string) bool {
		return len(args) == 7 && args[0] == "-png" && args[1] == "-r" && args[2] == "200" &&
			args[3] == "-l" && args[4] == "2" && filepath.Base(args[5]) == "input.pdf"
	})).Run(func(call mock.Arguments) {
		args := call.Get(3).([]string)
		prefix = args[len(args)-1]
		stored, err := os.ReadFile(args[5])
		require.NoError(t, err)
		assert.Equal(t, pdf, stored)
		// Written out of order; pages must still be read in page order.
		require.NoError(t, os.WriteFile(prefix+"-2.png", []byte("p2"), 0o600))
		require.NoError(t, os.WriteFile(prefix+"-1.png", []byte("p1"), 0o600))
	}).Return(nil, nil, nil)
	pageArgs := func(page string) interface{} {
		return mock.MatchedBy(func(args []string) bool {
			return len(args) == 6 && strings.HasSuffix(args[0], page) &&
				args[1] == "stdout" && args[3] == "sin" && args[5] == "4"
		})
	}
	runner.On("Run", mock.Anything, mock.Anything, "tesseract", pageArgs("page-1.png")).
		Return([]byte("  1 UWU/ICT/22/001 A\n"), nil, nil).Once()
	runner.On("Run", mock.Anything, mock.Anything, "tesseract", pageArgs("page-2.png")).
		Return([]byte("2 UWU/ICT/22/002 B\n\n"), nil, nil).Once()
	engine := textract.NewTesseractOCR(textract.TesseractConfig{Language: "sin", DPI: 200, PSM: 4, MaxPages: 2}, runner)

	text, err := engine.Recognize(context.Background(), domain.RawDocument{Data: pdf, MediaType: domain.MediaTypePDF})

	require.NoError(t, err)
	assert.Equal(t, "1 UWU/ICT/22/001 A\n2 UWU/ICT/22/002 B", text)
	assert.Equal(t, "page", filepath.Base(prefix))
	assert.NoDirExists(t, filepath.Dir(prefix))
	runner.AssertExpectations(t)
}

func TestTesseractOCR_ScannedPDFWithoutPageLimit(t *testing.T) {
	runner := new(mocks.MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, "pdftoppm", mock.MatchedBy(func(args []string) bool {
		return len(args) == 5 && args[2] == "300"
	})).Return(nil, nil, nil)
	engine := textract.NewTesseractOCR(textract.TesseractConfig{}, runner)

	text, err := engine.Recognize(context.Background(), domain.RawDocument{Data: []byte("%PDF"), MediaType: domain.MediaTypePDF})

	require.NoError(t, err)
	assert.Empty(t, text)
	runner.AssertExpectations(t)
}

func TestTesseractOCR_MissingPdftoppm(t *testing.T) {
	runner := new(mocks.MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, "pdftoppm", mock.Anything).
		Return(nil, nil, &exec.Error{Name: "pdftoppm", Err: exec.ErrNotFound})
	engine := textract.NewTesseractOCR(textract.TesseractConfig{}, runner)

	_, err := engine.Recognize(context.Background(), domain.RawDocument{Data: []byte("%PDF"), MediaType: domain.MediaTypePDF})

	assert.ErrorIs(t, err, textract.ErrOCRUnavailable)
	assert.Contains(t, err.Error(), "pdftoppm")
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, "tesseract", mock.Anything)
}

func TestTesseractOCR_PDFPageFailure(t *testing.T) {
	runner := new(mocks.MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, "pdftoppm", mock.Anything).
		Run(func(call mock.Arguments) {
			args := call.Get(3).([]string)
			require.NoError(t, os.WriteFile(args[len(args)-1]+"-1.png", []byte("p1"), 0o600))
		}).Return(nil, nil, nil)
	runner.On("Run", mock.Anything, mock.Anything, "tesseract", mock.Anything).
		Return(nil, []byte("bad image"), errors.New("exit status 1"))
	engine := textract.NewTesseractOCR(textract.TesseractConfig{}, runner)

	_, err := engine.Recognize(context.Background(), domain.RawDocument{Data: []byte("%PDF"), MediaType: domain.MediaTypePDF})

	require.Error(t, err)
	assert.NotErrorIs(t, err, textract.ErrOCRUnavailable)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestTesseractOCR_MissingBinary(t *testing.T) {
	runner := new(mocks.MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, "tesseract", mock.Anything).
		Return(nil, nil, &exec.Error{Name: "tesseract", Err: exec.ErrNotFound})
	engine := textract.NewTesseractOCR(textract.TesseractConfig{}, runner)

	_, err := engine.Recognize(context.Background(), domain.RawDocument{Data: []byte{1}, MediaType: domain.MediaTypePNG})

	assert.ErrorIs(t, err, textract.ErrOCRUnavailable)
}

func TestTesseractOCR_UnsupportedMediaType(t *testing.T) {
	engine := textract.NewTesseractOCR(textract.TesseractConfig{}, new(mocks.MockRunner))

	_, err := engine.Recognize(context.Background(), domain.RawDocument{Data: []byte{1}, MediaType: domain.MediaTypeXLSX})

	assert.ErrorIs(t, err, textract.ErrOCRUnsupported)
}
