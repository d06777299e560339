package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradeledger/internal/domain"
	"gradeledger/internal/handler"
	"gradeledger/mocks"
)

func TestParseHandler_Parse_Success(t *testing.T) {
	mockParser := new(mocks.MockDocumentParser)
	h := handler.NewParseHandler(mockParser, 1024)

	content := []byte("UWU/ICT/22/001 A\nUWU/ICT/22/002 B+")
	mockParser.On("Parse", mock.Anything, domain.RawDocument{Data: content, MediaType: domain.MediaTypeCSV}).
		Return(&domain.ParseResult{Success: true, RecordCount: 2}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/parse", "Results.CSV", content, nil)

	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"record_count":2`)
	mockParser.AssertExpectations(t)
}

func TestParseHandler_Parse_ManualEntryIsNotAnError(t *testing.T) {
	mockParser := new(mocks.MockDocumentParser)
	h := handler.NewParseHandler(mockParser, 0)

	mockParser.On("Parse", mock.Anything, mock.Anything).
		Return(&domain.ParseResult{RequiresManualEntry: true}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/parse", "scan.png", []byte("\x89PNG\r\n\x1a\n"), nil)

	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"requires_manual_entry":true`)
}

func TestParseHandler_Parse_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  []byte
		status   int
	}{
		{"missing file", "", nil, http.StatusBadRequest},
		{"unsupported extension", "notes.docx", []byte("x"), http.StatusBadRequest},
		{"too large", "big.txt", []byte(strings.Repeat("a", 33)), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockParser := new(mocks.MockDocumentParser)
			h := handler.NewParseHandler(mockParser, 32)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = multipartRequest(t, "/api/v1/parse", tt.fileName, tt.content, map[string]string{"note": "x"})

			h.Parse(c)

			assert.Equal(t, tt.status, w.Code)
			mockParser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
		})
	}
}

func TestParseHandler_Parse_EmptyDocument(t *testing.T) {
	mockParser := new(mocks.MockDocumentParser)
	h := handler.NewParseHandler(mockParser, 0)
	mockParser.On("Parse", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyDocument)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/parse", "empty.txt", []byte{}, nil)

	h.Parse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_DOCUMENT")
}
