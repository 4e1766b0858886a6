package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/automation/internal/infrastructure/auth"
	"github.com/erp/automation/internal/infrastructure/config"
	"github.com/erp/automation/internal/interfaces/http/dto"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestTokens() *auth.HostTokenService {
	return auth.NewHostTokenService(config.HostConfig{
		JWTSecret: testSecret,
		Issuer:    "test-issuer",
		Audience:  "test-audience",
		TokenTTL:  15 * time.Minute,
	})
}

func issue(t *testing.T, tokens *auth.HostTokenService, in auth.IssueInput) string {
	t.Helper()
	token, _, err := tokens.Issue(in)
	require.NoError(t, err)
	return token
}

func jwtRouter(cfg JWTMiddlewareConfig, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(cfg))
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": GetJWTSubject(c)})
	})
	engine.GET("/api/v1/automation/catalog", handlers...)
	engine.GET("/api/v1/oauth/callback", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func get(engine *gin.Engine, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newTestTokens()
	engine := jwtRouter(DefaultJWTConfig(tokens))

	w := get(engine, "/api/v1/automation/catalog", issue(t, tokens, auth.IssueInput{Subject: "acct-1", Platform: "zapier"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject":"acct-1"}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	tokens := newTestTokens()
	engine := jwtRouter(DefaultJWTConfig(tokens))

	other := auth.NewHostTokenService(config.HostConfig{
		JWTSecret: "another-secret-key-at-least-32-chars",
		Issuer:    "test-issuer",
		Audience:  "test-audience",
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeInvalidToken},
		{"wrong scheme", "Basic abc", dto.ErrCodeInvalidToken},
		{"garbage token", BearerPrefix + "not-a-jwt", dto.ErrCodeInvalidToken},
		{"foreign signature", BearerPrefix + issue(t, other, auth.IssueInput{Subject: "x"}), dto.ErrCodeInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/automation/catalog", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	tokens := newTestTokens()
	engine := jwtRouter(DefaultJWTConfig(tokens))

	token := issue(t, tokens, auth.IssueInput{Subject: "acct-1", TTL: time.Nanosecond})
	time.Sleep(1100 * time.Millisecond)

	w := get(engine, "/api/v1/automation/catalog", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	engine := jwtRouter(DefaultJWTConfig(newTestTokens()))

	assert.Equal(t, http.StatusOK, get(engine, "/health", "").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/oauth/callback", "").Code)
}

func TestJWTAuthMiddleware_NotConfigured(t *testing.T) {
	disabled := auth.NewHostTokenService(config.HostConfig{})

	t.Run("rejects without anonymous mode", func(t *testing.T) {
		engine := jwtRouter(DefaultJWTConfig(disabled))
		w := get(engine, "/api/v1/automation/catalog", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("allows anonymous mode", func(t *testing.T) {
		cfg := DefaultJWTConfig(disabled)
		cfg.AllowAnonymous = true
		engine := jwtRouter(cfg)
		w := get(engine, "/api/v1/automation/catalog", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"subject":""}`, w.Body.String())
	})
}

func TestJWTAuthMiddleware_OnError(t *testing.T) {
	cfg := DefaultJWTConfig(newTestTokens())
	cfg.OnError = func(c *gin.Context, err error) {
		c.String(http.StatusTeapot, err.Error())
	}
	engine := jwtRouter(cfg)

	w := get(engine, "/api/v1/automation/catalog", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRequireScope(t *testing.T) {
	tokens := newTestTokens()
	engine := jwtRouter(DefaultJWTConfig(tokens), RequireScope(ScopeAutomation))

	t.Run("granted", func(t *testing.T) {
		token := issue(t, tokens, auth.IssueInput{Subject: "a", Scopes: []string{ScopeAutomation}})
		assert.Equal(t, http.StatusOK, get(engine, "/api/v1/automation/catalog", token).Code)
	})

	t.Run("unscoped token grants everything", func(t *testing.T) {
		token := issue(t, tokens, auth.IssueInput{Subject: "a"})
		assert.Equal(t, http.StatusOK, get(engine, "/api/v1/automation/catalog", token).Code)
	})

	t.Run("denied", func(t *testing.T) {
		token := issue(t, tokens, auth.IssueInput{Subject: "a", Scopes: []string{ScopeOAuth}})
		w := get(engine, "/api/v1/automation/catalog", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
	})
}
