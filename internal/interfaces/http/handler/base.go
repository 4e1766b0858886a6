// Package handler contains the gin handlers of the automation API.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "github.com/erp/automation/internal/application/automation"
	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/interfaces/http/dto"
	"github.com/erp/automation/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.Set(middleware.ErrorCodeKey, code)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError translates an automation error into the error envelope. Throttled
// errors carry the backend's Retry-After hint when it sent one.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	m := dto.MapError(err)
	if m.RetryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(m.RetryAfterSeconds))
	}
	if m.Status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Automation request failed",
			zap.Error(err),
			zap.String("code", m.Info.Code),
			zap.String("error_kind", app.ErrorKind(err)),
		)
	}
	_ = c.Error(err)
	c.Set(middleware.ErrorCodeKey, m.Info.Code)
	c.JSON(m.Status, dto.NewMappedErrorResponse(m, getRequestID(c)))
}

// readBody reads the raw request body, answering 413 or 400 itself on failure
func (h *BaseHandler) readBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body == nil {
		return nil, true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return nil, false
		}
		h.BadRequest(c, "Unable to read request body")
		return nil, false
	}
	return body, true
}

// bindBundle decodes the invocation bundle from the request body. An empty
// body is an empty bundle.
func (h *BaseHandler) bindBundle(c *gin.Context) (domain.Bundle, bool) {
	body, ok := h.readBody(c)
	if !ok {
		return domain.Bundle{}, false
	}
	b, err := domain.DecodeBundle(body)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body must be a JSON bundle")
		return domain.Bundle{}, false
	}
	return b, true
}

// bindJSON binds a JSON request, answering 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return false
		}
		h.HandleError(c, middleware.BindingError(err))
		return false
	}
	return true
}
