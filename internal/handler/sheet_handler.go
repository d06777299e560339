package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gradeledger/internal/domain"
	"gradeledger/internal/middleware"
	"gradeledger/internal/port"
	"gradeledger/internal/service"
)

// SheetHandler handles result sheet upload and management endpoints.
type SheetHandler struct {
	sheetService service.SheetService
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(sheetService service.SheetService) *SheetHandler {
	return &SheetHandler{sheetService: sheetService}
}

// Upload handles POST /api/v1/sheets
// @Summary Upload a result sheet
// @Description Store a result document and queue it for parsing. Re-uploading identical content returns the existing sheet with 200.
// @Tags sheets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Result sheet (pdf, xlsx, txt, csv, png, jpg, tiff)"
// @Param course_code formData string false "Override the parsed course code"
// @Param subject_name formData string false "Override the parsed subject name"
// @Param credits formData number false "Override the parsed credit value"
// @Param semester_label formData string false "Override the parsed semester"
// @Param academic_year formData string false "Override the parsed academic year"
// @Param level_label formData string false "Override the parsed level"
// @Success 201 {object} Response{data=domain.ResultSheet} "Sheet queued for parsing"
// @Success 200 {object} Response{data=domain.ResultSheet} "Identical sheet already uploaded"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /sheets [post]
func (h *SheetHandler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	override, ok := metadataOverride(c)
	if !ok {
		return
	}

	res, err := h.sheetService.Upload(c.Request.Context(), &service.UploadSheetInput{
		UploadedBy: userID,
		FileName:   header.Filename,
		Size:       header.Size,
		File:       file,
		Override:   override,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	if res.Duplicate {
		RespondOK(c, res.Sheet)
		return
	}
	RespondCreated(c, res.Sheet)
}

// metadataOverride reads the optional override form fields. It returns nil when
// none is set. On failure the error response is already written.
func metadataOverride(c *gin.Context) (*domain.SheetMetadata, bool) {
	md := domain.SheetMetadata{
		CourseCode:    strings.ToUpper(strings.ReplaceAll(c.PostForm("course_code"), " ", "")),
		SubjectName:   strings.TrimSpace(c.PostForm("subject_name")),
		SemesterLabel: strings.TrimSpace(c.PostForm("semester_label")),
		AcademicYear:  strings.TrimSpace(c.PostForm("academic_year")),
		LevelLabel:    strings.TrimSpace(c.PostForm("level_label")),
	}
	if raw := strings.TrimSpace(c.PostForm("credits")); raw != "" {
		credits, err := strconv.ParseFloat(raw, 64)
		if err != nil || credits <= 0 || credits > 30 {
			RespondError(c, http.StatusBadRequest, "INVALID_CREDITS", "credits must be a number between 0 and 30")
			return nil, false
		}
		md.Credits = credits
	}
	if md == (domain.SheetMetadata{}) {
		return nil, true
	}
	return &md, true
}

// List handles GET /api/v1/sheets
// @Summary List result sheets
// @Tags sheets
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, queued, processing, completed, manual_entry, failed)
// @Param course_code query string false "Filter by course code"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.ResultSheet,meta=PagMeta} "List of sheets"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /sheets [get]
func (h *SheetHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	filter := port.SheetFilter{
		Status:     domain.SheetStatus(c.Query("status")),
		CourseCode: strings.ToUpper(strings.ReplaceAll(c.Query("course_code"), " ", "")),
	}

	sheets, total, err := h.sheetService.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, sheets, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/sheets/:id
// @Summary Get a result sheet
// @Tags sheets
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} Response{data=domain.ResultSheet}
// @Failure 404 {object} ErrorResponseBody "Sheet not found"
// @Security BearerAuth
// @Router /sheets/{id} [get]
func (h *SheetHandler) GetByID(c *gin.Context) {
	id, ok := parseSheetID(c)
	if !ok {
		return
	}

	sheet, err := h.sheetService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sheet)
}

// ListRecords handles GET /api/v1/sheets/:id/records
// @Summary List a sheet's student records
// @Tags sheets
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} Response{data=[]domain.StudentResult}
// @Failure 404 {object} ErrorResponseBody "Sheet not found"
// @Failure 409 {object} ErrorResponseBody "Sheet not parsed yet"
// @Security BearerAuth
// @Router /sheets/{id}/records [get]
func (h *SheetHandler) ListRecords(c *gin.Context) {
	id, ok := parseSheetID(c)
	if !ok {
		return
	}

	records, err := h.sheetService.ListRecords(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// Retry handles POST /api/v1/sheets/:id/retry
// @Summary Re-parse a sheet
// @Description Queue the sheet again. Its records and grade assignments are replaced when the parse completes.
// @Tags sheets
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} Response{data=domain.ResultSheet}
// @Failure 404 {object} ErrorResponseBody "Sheet not found"
// @Failure 409 {object} ErrorResponseBody "Sheet already queued or parsing"
// @Security BearerAuth
// @Router /sheets/{id}/retry [post]
func (h *SheetHandler) Retry(c *gin.Context) {
	id, ok := parseSheetID(c)
	if !ok {
		return
	}

	sheet, err := h.sheetService.RetryParse(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sheet)
}

// SubmitRecords handles PUT /api/v1/sheets/:id/records
// @Summary Enter records manually
// @Description Replace a sheet's records with operator-entered ones. Invalid ids are dropped and the first entry per id wins.
// @Tags sheets
// @Accept json
// @Produce json
// @Param id path string true "Sheet ID"
// @Param body body ManualRecordsRequest true "Records"
// @Success 200 {object} Response{data=domain.ResultSheet}
// @Failure 400 {object} ErrorResponseBody "Invalid body"
// @Failure 409 {object} ErrorResponseBody "Sheet already queued or parsing"
// @Failure 422 {object} ErrorResponseBody "No valid records"
// @Security BearerAuth
// @Router /sheets/{id}/records [put]
func (h *SheetHandler) SubmitRecords(c *gin.Context) {
	id, ok := parseSheetID(c)
	if !ok {
		return
	}

	var req ManualRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sheet, err := h.sheetService.SubmitManualRecords(c.Request.Context(), id, req.Records)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sheet)
}

// Export handles GET /api/v1/sheets/:id/export
// @Summary Export a sheet's records
// @Tags sheets
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Sheet ID"
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Failure 409 {object} ErrorResponseBody "Sheet not parsed yet"
// @Security BearerAuth
// @Router /sheets/{id}/export [get]
func (h *SheetHandler) Export(c *gin.Context) {
	id, ok := parseSheetID(c)
	if !ok {
		return
	}

	out, err := h.sheetService.Export(c.Request.Context(), id, strings.ToLower(c.DefaultQuery("format", "csv")))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
