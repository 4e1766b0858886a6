package dto

import (
	app "github.com/erp/automation/internal/application/automation"
	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/oauth"
)

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	Field          string `json:"field,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewMappedErrorResponse creates an error response from a mapped error
func NewMappedErrorResponse(m MappedError, requestID string) Response {
	info := m.Info
	info.RequestID = requestID
	return Response{Success: false, Error: &info}
}

// TriggerResponse carries polled or delivered records and their advisory dedupe keys
type TriggerResponse struct {
	Records    []domain.Record `json:"records"`
	Deliveries []app.Delivery  `json:"deliveries"`
}

// NewTriggerResponse builds a trigger response; records is never null
func NewTriggerResponse(records []domain.Record) TriggerResponse {
	if records == nil {
		records = []domain.Record{}
	}
	return TriggerResponse{Records: records, Deliveries: app.Deliveries(records)}
}

// SearchResponse carries zero, one or many matches
type SearchResponse struct {
	Records []domain.Record `json:"records"`
}

// TokenRequest exchanges an authorization code held by the caller
type TokenRequest struct {
	Code         string `json:"code" binding:"required"`
	RedirectURI  string `json:"redirect_uri" binding:"omitempty,url"`
	CodeVerifier string `json:"code_verifier"`
}

// RefreshRequest refreshes a host-held token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TestRequest verifies a connected account. The token may be sent directly
// or inside a bundle's authData.
type TestRequest struct {
	AccessToken string             `json:"access_token"`
	AuthData    domain.Credentials `json:"authData"`
}

// Token returns the access token to verify
func (r TestRequest) Token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.AuthData.AccessToken
}

// AuthorizeResponse is returned when the caller asks for the URL instead of a redirect
type AuthorizeResponse struct {
	AuthorizeURL string `json:"authorize_url"`
	State        string `json:"state"`
}

// TokenResponse is the token pair plus the credentials shape the host stores
type TokenResponse struct {
	oauth.TokenSet
	AuthData domain.Credentials `json:"authData"`
}

// NewTokenResponse wraps a token set
func NewTokenResponse(t oauth.TokenSet) TokenResponse {
	return TokenResponse{TokenSet: t, AuthData: t.Credentials()}
}

// HealthResponse reports service health
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}
