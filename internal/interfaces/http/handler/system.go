package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "github.com/erp/automation/internal/application/automation"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/interfaces/http/dto"
	"github.com/erp/automation/internal/interfaces/http/router"
)

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// SystemHandler handles health and info endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	registry  *app.Registry
	checks    map[string]HealthCheck
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. checks may be nil.
func NewSystemHandler(name, version string, registry *app.Registry, checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		registry:  registry,
		checks:    checks,
		startTime: time.Now(),
	}
}

// SystemRoutes creates the route group for system endpoints. infoGuard runs
// before the info endpoint only; health stays open.
func SystemRoutes(h *SystemHandler, infoGuard ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")
	group.GET("/info", append(infoGuard, h.GetSystemInfo)...)
	group.GET("/health", h.Health)
	return group
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Triggers  int    `json:"triggers"`
	Actions   int    `json:"actions"`
	Searches  int    `json:"searches"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns version, uptime and handler counts. May be restricted to an IP allowlist.
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.registry != nil {
		info.Triggers = len(h.registry.Triggers())
		info.Actions = len(h.registry.Actions())
		info.Searches = len(h.registry.Searches())
	}
	h.Success(c, info)
}

// Health runs every check with a short timeout. Any failure answers 503.
//
// @ID           getSystemHealth
// @Summary      Health check
// @Description  Runs dependency checks such as the Redis ping
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /system/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
	}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	c.JSON(status, resp)
}
