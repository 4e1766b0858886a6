package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingLabels(t *testing.T) {
	var got map[string]string
	engine := gin.New()
	engine.Use(Profiling())
	engine.POST("/api/v1/automation/actions/:key", func(c *gin.Context) {
		got = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			got[k] = v
			return true
		})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/automation/actions/createTask", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		ProfilingLabelMethod: http.MethodPost,
		ProfilingLabelRoute:  "/api/v1/automation/actions/:key",
		ProfilingLabelKey:    "createTask",
	}, got)
}

func TestProfiling_SkipsHealth(t *testing.T) {
	var labelled bool
	engine := gin.New()
	engine.Use(Profiling())
	engine.GET("/health", func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(string, string) bool {
			labelled = true
			return false
		})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	engine := gin.New()
	engine.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	engine.GET("/x", func(c *gin.Context) {
		_, ok := pprof.Label(c.Request.Context(), ProfilingLabelMethod)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusOK, w.Code)
}
