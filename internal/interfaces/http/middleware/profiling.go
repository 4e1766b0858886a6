package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profile label names. Values are low cardinality: route patterns, not paths.
const (
	ProfilingLabelMethod = "http_method"
	ProfilingLabelRoute  = "http_route"
	ProfilingLabelKey    = "automation_key"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are paths that don't need profiling labels (e.g., health checks).
	SkipPaths []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/api/v1/system/health"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig tags the goroutine serving each request with Pyroscope
// labels so CPU and allocation profiles can be split by route and by
// trigger, action or search key.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		for _, skipPath := range cfg.SkipPaths {
			if c.Request.URL.Path == skipPath {
				c.Next()
				return
			}
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels returns label key/value pairs for the matched route.
// Unmatched requests are labelled with the method only.
func profilingLabels(c *gin.Context) []string {
	labels := []string{ProfilingLabelMethod, c.Request.Method}
	if route := c.FullPath(); route != "" {
		labels = append(labels, ProfilingLabelRoute, route)
	}
	if key := c.Param("key"); key != "" && !strings.ContainsAny(key, "/ ") {
		labels = append(labels, ProfilingLabelKey, key)
	}
	return labels
}
