// Package erpclient implements the authenticated HTTP client used to reach
// the ERP API. It injects bearer credentials, translates error statuses into
// the automation error taxonomy and never retries.
package erpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from the ERP API (10MB)
const maxResponseSize = 10 * 1024 * 1024

var (
	ErrMissingBaseURL = errors.New("erpclient: base url is required")
	ErrInvalidBaseURL = errors.New("erpclient: invalid base url")
	ErrRequestFailed  = errors.New("erpclient: request failed")
)

// Config holds ERP API connection settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Response is an untranslated ERP API response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ThrottleError returns a ThrottledError carrying the Retry-After hint when
// the backend answered 429, nil otherwise
func (r *Response) ThrottleError() error {
	if r.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	return automation.NewThrottledError(parseRetryAfter(r.Header.Get("Retry-After"), time.Now()))
}

// Client is the authenticated ERP API client. It is safe for concurrent use
// and holds no per-account state.
type Client struct {
	baseURL    *url.URL
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.AutomationMetrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records backend call metrics
func WithMetrics(m *telemetry.AutomationMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the given base URL
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured ERP API base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL resolves path against the base URL. Absolute URLs are returned as-is.
func (c *Client) URL(path string, params url.Values) string {
	var u *url.URL
	if parsed, err := url.Parse(path); err == nil && parsed.IsAbs() {
		u = parsed
	} else {
		clone := *c.baseURL
		clone.Path = strings.TrimRight(clone.Path, "/") + "/" + strings.TrimLeft(path, "/")
		u = &clone
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Request performs an authenticated call and returns the JSON body.
// 401 yields an AuthenticationError asking for a refresh, 429 a ThrottledError
// and any other status >= 400 an APIError. Transport failures are wrapped.
func (c *Client) Request(ctx context.Context, creds automation.Credentials, req automation.Request) (json.RawMessage, error) {
	if creds.AccessToken == "" {
		return nil, automation.ErrMissingCredentials
	}
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers["Authorization"] = "Bearer " + creds.AccessToken
	req.Headers = headers

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := translateStatus(resp); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimSpace(resp.Body)), nil
}

// Do sends the request without status translation. It is used by the OAuth
// flow, which maps failures differently.
func (c *Client) Do(ctx context.Context, req automation.Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.URL(req.Path, req.Params)

	ctx, span := telemetry.StartSpan(ctx, "erp "+method+" "+req.Path, trace.SpanKindClient,
		attribute.String("http.method", method),
		attribute.String("erp.path", req.Path),
	)
	defer span.End()

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("erpclient: encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("erpclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordBackendCall(ctx, method, 0, time.Since(start))
		telemetry.RecordError(span, err)
		c.log(ctx).Warn("ERP request failed",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, req.Path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	elapsed := time.Since(start)
	c.metrics.RecordBackendCall(ctx, method, httpResp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("latency", elapsed),
	}
	if httpResp.StatusCode >= 400 {
		c.log(ctx).Warn("ERP request returned error status", fields...)
	} else {
		c.log(ctx).Debug("ERP request", fields...)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, logger.FromContextOr(ctx, c.logger))
}

// ---------------------------------------------------------------------------
// Status translation
// ---------------------------------------------------------------------------

// errorBody is the backend error envelope: {"error": {"code": "...", "message": "..."}}
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func translateStatus(resp *Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return automation.NewRefreshRequiredError()
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.ThrottleError()
	case resp.StatusCode >= 400:
		code, message := parseErrorBody(resp.Body)
		return automation.NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), code, message)
	default:
		return nil
	}
}

func parseErrorBody(body []byte) (code, message string) {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return "", ""
	}
	var detail errorDetail
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		return detail.Code, detail.Message
	}
	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		return "", text
	}
	return "", ""
}

// parseRetryAfter accepts delta-seconds or an HTTP date. Unparseable or past
// values yield zero.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
