package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gradeledger/internal/domain"
	"gradeledger/internal/service"
)

// AnalyticsHandler handles GPA and projection endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// ComputeGPA handles POST /api/v1/analytics/gpa
// @Summary Compute GPA
// @Description Compute overall, per-level and per-semester GPA and trends for the supplied grade assignments. Assignments are taken in chronological order.
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body GPARequest true "Grade assignments"
// @Success 200 {object} Response{data=gpa.Report}
// @Failure 400 {object} ErrorResponseBody "Invalid body"
// @Security BearerAuth
// @Router /analytics/gpa [post]
func (h *AnalyticsHandler) ComputeGPA(c *gin.Context) {
	var req GPARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	RespondOK(c, h.analyticsService.ComputeGPA(req.Assignments))
}

// Project handles POST /api/v1/analytics/projection
// @Summary Project the GPA required to reach a target
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body service.ProjectionInput true "Projection input"
// @Success 200 {object} Response{data=gpa.Projection}
// @Failure 400 {object} ErrorResponseBody "Invalid input"
// @Security BearerAuth
// @Router /analytics/projection [post]
func (h *AnalyticsHandler) Project(c *gin.Context) {
	var in service.ProjectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	p, err := h.analyticsService.Project(in)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, p)
}

// Student handles GET /api/v1/students/{registration id}/gpa and
// GET /api/v1/students/{registration id}/projection. The registration id
// contains slashes, so both are served from one wildcard route.
// @Summary Student GPA or projection from stored records
// @Tags analytics
// @Produce json
// @Param path path string true "Registration id followed by /gpa or /projection, e.g. UWU/ICT/22/001/gpa"
// @Param target query number false "Target GPA (projection only)"
// @Param remaining query number false "Remaining credits (projection only)"
// @Success 200 {object} Response{data=service.StudentReport}
// @Failure 400 {object} ErrorResponseBody "Invalid registration id or projection input"
// @Failure 404 {object} ErrorResponseBody "No records for student"
// @Security BearerAuth
// @Router /students/{path} [get]
func (h *AnalyticsHandler) Student(c *gin.Context) {
	regID, action, ok := splitStudentPath(c.Param("path"))
	if !ok {
		RespondError(c, http.StatusNotFound, "NOT_FOUND", "expected /students/{registration id}/gpa or /projection")
		return
	}

	switch action {
	case "gpa":
		report, err := h.analyticsService.StudentGPA(c.Request.Context(), regID)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, report)
	case "projection":
		target, err1 := strconv.ParseFloat(c.Query("target"), 64)
		remaining, err2 := strconv.ParseFloat(c.Query("remaining"), 64)
		if err1 != nil || err2 != nil {
			HandleError(c, domain.ErrInvalidProjection)
			return
		}
		p, err := h.analyticsService.StudentProjection(c.Request.Context(), regID, target, remaining)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, p)
	}
}

// splitStudentPath splits "/UWU/ICT/22/001/gpa" into the registration id and the action.
func splitStudentPath(path string) (regID, action string, ok bool) {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "", "", false
	}
	regID, action = path[:i], path[i+1:]
	if action != "gpa" && action != "projection" {
		return "", "", false
	}
	return regID, action, true
}
