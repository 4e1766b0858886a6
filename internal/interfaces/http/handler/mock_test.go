package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/oauth"
	"github.com/erp/automation/internal/interfaces/http/dto"
	"github.com/erp/automation/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockRequester is a mock implementation of domain.Requester
type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) Request(ctx context.Context, creds domain.Credentials, req domain.Request) (json.RawMessage, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return json.RawMessage(args.String(0)), args.Error(1)
}

// mockAuthenticator is a mock implementation of the OAuth flow
type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) BeginAuthorization(ctx context.Context, redirectURI string) (string, string, error) {
	args := m.Called(ctx, redirectURI)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockAuthenticator) CompleteAuthorization(ctx context.Context, state, code string) (oauth.TokenSet, error) {
	args := m.Called(ctx, state, code)
	return args.Get(0).(oauth.TokenSet), args.Error(1)
}

func (m *mockAuthenticator) ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (oauth.TokenSet, error) {
	args := m.Called(ctx, code, redirectURI, codeVerifier)
	return args.Get(0).(oauth.TokenSet), args.Error(1)
}

func (m *mockAuthenticator) Refresh(ctx context.Context, refreshToken string) (oauth.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(oauth.TokenSet), args.Error(1)
}

func (m *mockAuthenticator) Verify(ctx context.Context, accessToken string) (oauth.UserProfile, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(oauth.UserProfile), args.Error(1)
}

// mount registers a domain group under /api/v1 on a fresh engine
func mount(group *router.DomainGroup) *gin.Engine {
	engine := gin.New()
	group.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func serve(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(w *httptest.ResponseRecorder) (dto.Response, error) {
	var resp dto.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	return resp, err
}
