package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs each HTTP request with method, route, status, size and latency.
// The route template is logged instead of the raw path so student registration
// ids do not end up in access logs. Probe endpoints are not logged.
func Logger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "(unmatched)"
		}
		if skip[route] {
			return
		}
		requestID, _ := c.Get(ContextKeyRequestID)
		log.Printf("[%s] %s %s %d %dB %s",
			requestID,
			c.Request.Method,
			route,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
		)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
