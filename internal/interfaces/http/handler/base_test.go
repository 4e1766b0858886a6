package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/interfaces/http/middleware"
)

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*gin.Context)
		expected string
	}{
		{
			name:     "from context",
			setup:    func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-id") },
			expected: "ctx-id",
		},
		{
			name:     "from header",
			setup:    func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "hdr-id") },
			expected: "hdr-id",
		},
		{
			name:     "context wins",
			expected: "ctx-id",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "hdr-id")
			},
		},
		{
			name:  "absent",
			setup: func(*gin.Context) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.expected, getRequestID(c))
		})
	}
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"validation", domain.NewValidationError("title", "title is required"), http.StatusBadRequest, "VALIDATION_ERROR", "title"},
		{"wrapped refresh", fmt.Errorf("createTask: %w", domain.NewRefreshRequiredError()), http.StatusUnauthorized, "REFRESH_AUTH_REQUIRED", ""},
		{"backend 404", domain.NewAPIError(http.StatusNotFound, "Not Found", "NOT_FOUND", "no task 9"), http.StatusNotFound, "NOT_FOUND", ""},
		{"canceled", context.Canceled, 499, "REQUEST_CANCELED", ""},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "BAD_GATEWAY", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			var h BaseHandler
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, c.GetString(middleware.ErrorCodeKey))
			assert.Len(t, c.Errors, 1)

			resp, err := decodeResponse(w)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantField, resp.Error.Field)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	var h BaseHandler
	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
	assert.Empty(t, c.Errors)
}

func TestBaseHandler_BindBundle(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"empty body", "", true},
		{"bundle", `{"authData":{"access_token":"a"},"inputData":{"title":"x"}}`, true},
		{"not json", "title=x", false},
		{"array", `[1,2]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			var h BaseHandler
			engine.POST("/", func(c *gin.Context) {
				if _, ok := h.bindBundle(c); ok {
					c.Status(http.StatusNoContent)
				}
			})

			w := serve(engine, http.MethodPost, "/", tt.body)
			if tt.wantOK {
				assert.Equal(t, http.StatusNoContent, w.Code)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
