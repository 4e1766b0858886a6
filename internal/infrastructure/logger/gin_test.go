package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func findHTTPLog(t *testing.T, logs *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_Levels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusNotFound, zapcore.WarnLevel},
		{"server error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?limit=5", nil))

			entry := findHTTPLog(t, logs)
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "limit=5", fields["query"])
			assert.Equal(t, "/x", fields["route"])
		})
	}
}

func TestGinMiddleware_PropagatesLoggerAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/x", func(c *gin.Context) {
		assert.Equal(t, "req-123", GetRequestID(c.Request.Context()))
		L(c.Request.Context()).Info("inside handler")
		assert.NotNil(t, GetGinLogger(c))
		c.Status(http.StatusNoContent)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "req-123", inside[0].ContextMap()["request_id"])
	assert.Equal(t, "/x", inside[0].ContextMap()["path"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}

func TestRedactQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"nothing sensitive", "limit=5&page=2", "limit=5&page=2"},
		{"oauth callback", "code=abc&state=xyz", "code=REDACTED&state=REDACTED"},
		{"mixed case key", "Access_Token=t&format=json", "Access_Token=REDACTED&format=json"},
		{"unparsable", "a=%zz", "[unparsable]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactQuery(tt.raw))
		})
	}
}

func TestGinMiddleware_RedactsCallbackAndTagsKey(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/oauth/callback", func(c *gin.Context) {
		c.Set(GinErrorCodeKey, "INVALID_STATE")
		c.Status(http.StatusBadRequest)
	})
	router.POST("/actions/:key", func(c *gin.Context) {
		assert.Equal(t, "createTask", GetHandlerKey(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/oauth/callback?code=secret&state=s1", nil))
	entry := findHTTPLog(t, logs)
	assert.Equal(t, "code=REDACTED&state=REDACTED", entry.ContextMap()["query"])
	assert.Equal(t, "INVALID_STATE", entry.ContextMap()["error_code"])
	assert.NotContains(t, entry.ContextMap()["query"], "secret")

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/actions/createTask", nil))
}
