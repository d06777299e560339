package handler

import (
	"gradeledger/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// ManualRecordsRequest represents the manual record entry body.
type ManualRecordsRequest struct {
	Records []domain.StudentResult `json:"records" binding:"required"`
}

// GPARequest represents the GPA computation body.
type GPARequest struct {
	Assignments []domain.GradeAssignment `json:"assignments" binding:"required"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
