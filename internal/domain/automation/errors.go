package automation

import (
	"errors"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Automation Errors
// ---------------------------------------------------------------------------

var (
	ErrUnknownHandler     = errors.New("automation: unknown handler")
	ErrMissingCredentials = errors.New("automation: missing access token")
	ErrMissingTargetURL   = errors.New("automation: missing target url")
	ErrMissingSubscribeID = errors.New("automation: missing subscription id")
	ErrInvalidSignature   = errors.New("automation: invalid webhook signature")
	ErrMalformedResponse  = errors.New("automation: malformed backend response")
)

const (
	// MessageReconnect is surfaced when the backend rejects the credentials
	MessageReconnect = "Authentication failed. Please reconnect your account."
	// MessageThrottled is surfaced on HTTP 429
	MessageThrottled = "Rate limit exceeded. Please try again later."
)

// AuthenticationError reports that credential exchange, refresh or verification
// failed. RefreshRequired is set when a regular call received HTTP 401 and the
// host should refresh or reconnect the account.
type AuthenticationError struct {
	StatusCode      int
	Message         string
	RefreshRequired bool
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(status int, message string) *AuthenticationError {
	return &AuthenticationError{StatusCode: status, Message: message}
}

// NewRefreshRequiredError creates the error returned for HTTP 401 responses
func NewRefreshRequiredError() *AuthenticationError {
	return &AuthenticationError{StatusCode: 401, Message: MessageReconnect, RefreshRequired: true}
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ThrottledError reports HTTP 429. RetryAfter is advisory and zero when the
// backend did not send one; nothing is retried locally.
type ThrottledError struct {
	Message    string
	RetryAfter time.Duration
}

// NewThrottledError creates a throttled error
func NewThrottledError(retryAfter time.Duration) *ThrottledError {
	return &ThrottledError{Message: MessageThrottled, RetryAfter: retryAfter}
}

func (e *ThrottledError) Error() string {
	return e.Message
}

// APIError reports any other backend response with status >= 400
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// NewAPIError creates an API error, synthesising defaults when the backend
// body did not carry a code or message.
func NewAPIError(status int, statusText, code, message string) *APIError {
	if code == "" {
		code = "ApiError"
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", status, statusText)
	}
	return &APIError{StatusCode: status, Code: code, Message: message}
}

func (e *APIError) Error() string {
	return e.Message
}

// ValidationError reports input that was rejected before any backend call
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsRefreshRequired reports whether err asks the host to refresh credentials
func IsRefreshRequired(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr) && authErr.RefreshRequired
}
