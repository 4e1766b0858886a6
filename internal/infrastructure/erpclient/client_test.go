package erpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/automation/internal/domain/automation"
)

var testCreds = automation.Credentials{AccessToken: "access-123"}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client, server
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr error
	}{
		{name: "valid", baseURL: "https://erp.example.com"},
		{name: "trailing slash", baseURL: "https://erp.example.com/"},
		{name: "empty", baseURL: "  ", wantErr: ErrMissingBaseURL},
		{name: "relative", baseURL: "erp.example.com", wantErr: ErrInvalidBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(Config{BaseURL: tt.baseURL})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://erp.example.com", client.BaseURL())
		})
	}
}

func TestClient_URL(t *testing.T) {
	client, err := New(Config{BaseURL: "https://erp.example.com/base/"})
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com/base/api/trpc/tasks.list", client.URL("/api/trpc/tasks.list", nil))
	assert.Equal(t, "https://erp.example.com/base/api/trpc/contacts.search?email=a%40b.com",
		client.URL("/api/trpc/contacts.search", url.Values{"email": {"a@b.com"}}))
	assert.Equal(t, "https://hooks.example.com/x", client.URL("https://hooks.example.com/x", nil))
}

func TestClient_Request_Success(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any
	var gotQuery url.Values

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotQuery = r.URL.Query()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/trpc/tasks.create", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"data":{"id":1}}}`))
	})

	headers := map[string]string{automation.IdempotencyKeyHeader: "key-1"}
	raw, err := client.Request(context.Background(), testCreds, automation.Request{
		Method:  http.MethodPost,
		Path:    "/api/trpc/tasks.create",
		Params:  url.Values{"trace": {"yes"}},
		Body:    map[string]any{"title": "Close Q1 books"},
		Headers: headers,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"result":{"data":{"id":1}}}`, string(raw))
	assert.Equal(t, "Bearer access-123", gotHeaders.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "key-1", gotHeaders.Get("Idempotency-Key"))
	assert.Equal(t, "yes", gotQuery.Get("trace"))
	assert.Equal(t, "Close Q1 books", gotBody["title"])
	assert.NotContains(t, headers, "Authorization", "caller headers must not be mutated")
}

func TestClient_Request_StatusTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 asks for a refresh",
			status: http.StatusUnauthorized,
			body:   `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`,
			check: func(t *testing.T, err error) {
				var authErr *automation.AuthenticationError
				require.ErrorAs(t, err, &authErr)
				assert.True(t, authErr.RefreshRequired)
				assert.Equal(t, automation.MessageReconnect, authErr.Message)
				var apiErr *automation.APIError
				assert.False(t, errors.As(err, &apiErr))
			},
		},
		{
			name:   "429 is throttled with retry after",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "30"},
			check: func(t *testing.T, err error) {
				var throttled *automation.ThrottledError
				require.ErrorAs(t, err, &throttled)
				assert.Equal(t, 30*time.Second, throttled.RetryAfter)
				assert.Equal(t, automation.MessageThrottled, throttled.Message)
			},
		},
		{
			name:   "backend error body",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"BAD_REQUEST","message":"title is required"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *automation.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 400, apiErr.StatusCode)
				assert.Equal(t, "BAD_REQUEST", apiErr.Code)
				assert.Equal(t, "title is required", apiErr.Message)
			},
		},
		{
			name:   "error as plain string",
			status: http.StatusConflict,
			body:   `{"error":"duplicate poNumber"}`,
			check: func(t *testing.T, err error) {
				var apiErr *automation.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "ApiError", apiErr.Code)
				assert.Equal(t, "duplicate poNumber", apiErr.Message)
			},
		},
		{
			name:   "no body synthesises message",
			status: http.StatusInternalServerError,
			body:   `<html>oops</html>`,
			check: func(t *testing.T, err error) {
				var apiErr *automation.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "ApiError", apiErr.Code)
				assert.Equal(t, "HTTP 500: Internal Server Error", apiErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			raw, err := client.Request(context.Background(), testCreds, automation.Request{Path: "/api/trpc/tasks.list"})
			assert.Nil(t, raw)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_Request_MissingCredentials(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := client.Request(context.Background(), automation.Credentials{}, automation.Request{Path: "/api/trpc/auth.me"})
	assert.ErrorIs(t, err, automation.ErrMissingCredentials)
	assert.Zero(t, calls)
}

func TestClient_Request_TransportFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Request(context.Background(), testCreds, automation.Request{Path: "/api/trpc/tasks.list"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var apiErr *automation.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_Do_NoTranslation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	resp, err := client.Do(context.Background(), automation.Request{Method: http.MethodPost, Path: "/api/oauth/token"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"invalid_grant"}`, string(resp.Body))
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, 5*time.Second, parseRetryAfter(" 5 ", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-3", now))
	assert.Equal(t, 2*time.Minute, parseRetryAfter(now.Add(2*time.Minute).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
}

func TestResponseThrottleError(t *testing.T) {
	ok := &Response{StatusCode: http.StatusBadRequest, Header: http.Header{}}
	assert.NoError(t, ok.ThrottleError())

	throttled := &Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": {"12"}}}
	var te *automation.ThrottledError
	require.ErrorAs(t, throttled.ThrottleError(), &te)
	assert.Equal(t, 12*time.Second, te.RetryAfter)
}
