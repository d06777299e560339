package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"gradeledger/internal/domain"
	"gradeledger/internal/port"
)

// ParseHandler parses uploaded documents without storing them.
type ParseHandler struct {
	parser   port.DocumentParser
	maxBytes int64
}

// NewParseHandler creates a new ParseHandler. maxBytes <= 0 disables the size limit.
func NewParseHandler(docParser port.DocumentParser, maxBytes int64) *ParseHandler {
	return &ParseHandler{parser: docParser, maxBytes: maxBytes}
}

// Parse handles POST /api/v1/parse
// @Summary Parse a result sheet
// @Description Extract metadata and student records from a document without storing it. A document whose text cannot be read comes back with requires_manual_entry set, not as an error.
// @Tags parse
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Result sheet (pdf, xlsx, txt, csv, png, jpg, tiff)"
// @Success 200 {object} Response{data=domain.ParseResult}
// @Failure 400 {object} ErrorResponseBody "Missing, empty or unsupported file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /parse [post]
func (h *ParseHandler) Parse(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	mediaType, ok := domain.AllowedExtensions[ext]
	if !ok {
		HandleError(c, domain.ErrUnsupportedMediaType)
		return
	}

	reader := io.Reader(file)
	if h.maxBytes > 0 {
		if header.Size > h.maxBytes {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		reader = io.LimitReader(file, h.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	result, err := h.parser.Parse(c.Request.Context(), domain.RawDocument{Data: data, MediaType: mediaType})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
