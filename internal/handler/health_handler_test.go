package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gradeledger/internal/handler"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*handler.HealthHandler, *gin.Context)
		err    error
		status int
	}{
		{"liveness", (*handler.HealthHandler).Liveness, errors.New("db down"), http.StatusOK},
		{"readiness ok", (*handler.HealthHandler).Readiness, nil, http.StatusOK},
		{"readiness db down", (*handler.HealthHandler).Readiness, errors.New("db down"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(stubPinger{err: tt.err})
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)

			tt.call(h, c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
