package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradeledger/internal/domain"
	"gradeledger/internal/middleware"
	"gradeledger/internal/service"
	"gradeledger/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, "/test", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error.Code
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	verifier := new(mocks.MockTokenVerifier)
	userID := uuid.New()
	verifier.On("ValidateToken", "valid-token").Return(&service.Claims{
		UserID: userID, Email: "staff@example.edu", Role: domain.RoleStaff,
	}, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(verifier))
	r.GET("/test", func(c *gin.Context) {
		uid, err := middleware.GetUserID(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": middleware.GetRole(c)})
	})

	w := serve(r, http.MethodGet, "Bearer valid-token")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, "staff", resp["role"])
	verifier.AssertExpectations(t)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	verifier := new(mocks.MockTokenVerifier)
	verifier.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(verifier))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Basic abc", "Bearer bad-token"} {
		w := serve(r, http.MethodGet, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"allowed", "admin", http.StatusOK},
		{"second allowed", "staff", http.StatusOK},
		{"denied", "student", http.StatusForbidden},
		{"missing", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(middleware.ContextKeyRole, tt.role)
				}
			})
			r.GET("/test", middleware.RequireRole(domain.RoleAdmin, domain.RoleStaff), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, http.MethodGet, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetUserID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, middleware.GetRole(c))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(nil))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/test", func(c *gin.Context) {
		id, _ := c.Get(middleware.ContextKeyRequestID)
		c.String(http.StatusOK, id.(string))
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", w.Body.String())

	w = serve(r, http.MethodGet, "")
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
