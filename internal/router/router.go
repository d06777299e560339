package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gradeledger/docs" // swagger spec registration
	"gradeledger/internal/domain"
	"gradeledger/internal/handler"
	"gradeledger/internal/middleware"
	"gradeledger/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Sheet     *handler.SheetHandler
	Parse     *handler.ParseHandler
	Analytics *handler.AnalyticsHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(verifier service.TokenVerifier, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger("/healthz", "/readyz"))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(verifier))

	writers := middleware.RequireRole(domain.RoleAdmin, domain.RoleStaff)

	v1.POST("/parse", h.Parse.Parse)

	sheets := v1.Group("/sheets")
	sheets.POST("", writers, h.Sheet.Upload)
	sheets.GET("", h.Sheet.List)
	sheets.GET("/:id", h.Sheet.GetByID)
	sheets.GET("/:id/records", h.Sheet.ListRecords)
	sheets.PUT("/:id/records", writers, h.Sheet.SubmitRecords)
	sheets.POST("/:id/retry", writers, h.Sheet.Retry)
	sheets.GET("/:id/export", h.Sheet.Export)

	analytics := v1.Group("/analytics")
	analytics.POST("/gpa", h.Analytics.ComputeGPA)
	analytics.POST("/projection", h.Analytics.Project)

	// Registration ids contain slashes, so the student routes share one wildcard.
	v1.GET("/students/*path", h.Analytics.Student)

	return r
}
