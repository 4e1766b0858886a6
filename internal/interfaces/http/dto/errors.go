package dto

import (
	"context"
	"errors"
	"math"
	"net/http"

	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/erpclient"
	"github.com/erp/automation/internal/infrastructure/oauth"
)

// Error codes returned to the host platform

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadGateway is used when the ERP backend answered with something unusable
	ErrCodeBadGateway = "BAD_GATEWAY"
	// ErrCodeCanceled is used when the caller went away before the backend answered
	ErrCodeCanceled = "REQUEST_CANCELED"
)

// Input error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeInvalidState     = "INVALID_STATE"
)

// Authentication error codes
const (
	// ErrCodeRefreshRequired asks the host to refresh or reconnect the account
	ErrCodeRefreshRequired = "REFRESH_AUTH_REQUIRED"
	// ErrCodeAuthenticationFailed is a rejected exchange, refresh or verification
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	// ErrCodeUnauthorized is a missing or invalid host token
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeInvalidToken = "INVALID_TOKEN"
	ErrCodeForbidden    = "FORBIDDEN"
)

// Resource and throttling error codes
const (
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeThrottled   = "THROTTLED"
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadGateway: http.StatusBadGateway,
	ErrCodeCanceled:   499,

	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeInvalidSignature: http.StatusUnauthorized,
	ErrCodeInvalidState:     http.StatusBadRequest,

	ErrCodeRefreshRequired:      http.StatusUnauthorized,
	ErrCodeAuthenticationFailed: http.StatusUnauthorized,
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeTokenExpired:         http.StatusUnauthorized,
	ErrCodeInvalidToken:         http.StatusUnauthorized,
	ErrCodeForbidden:            http.StatusForbidden,

	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeThrottled:   http.StatusTooManyRequests,
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MappedError is an error translated for the host
type MappedError struct {
	Status int
	Info   ErrorInfo
	// RetryAfterSeconds is set for throttled errors when the backend sent a hint
	RetryAfterSeconds int
}

// MapError translates an automation error into an HTTP status and error body.
// Backend 4xx answers keep their status; backend 5xx answers become 502.
func MapError(err error) MappedError {
	var (
		authErr     *domain.AuthenticationError
		throttleErr *domain.ThrottledError
		apiErr      *domain.APIError
		validErr    *domain.ValidationError
	)

	switch {
	case errors.As(err, &authErr):
		code := ErrCodeAuthenticationFailed
		if authErr.RefreshRequired {
			code = ErrCodeRefreshRequired
		}
		return mapped(code, authErr.Message, "")

	case errors.As(err, &throttleErr):
		m := mapped(ErrCodeThrottled, throttleErr.Message, "")
		if throttleErr.RetryAfter > 0 {
			m.RetryAfterSeconds = int(math.Ceil(throttleErr.RetryAfter.Seconds()))
		}
		return m

	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return MappedError{
			Status: status,
			Info: ErrorInfo{
				Code:           apiErr.Code,
				Message:        apiErr.Message,
				UpstreamStatus: apiErr.StatusCode,
			},
		}

	case errors.As(err, &validErr):
		return mapped(ErrCodeValidation, validErr.Error(), validErr.Field)

	case errors.Is(err, domain.ErrMissingTargetURL):
		return mapped(ErrCodeValidation, err.Error(), "targetUrl")
	case errors.Is(err, domain.ErrMissingSubscribeID):
		return mapped(ErrCodeValidation, err.Error(), "subscribeData.id")
	case errors.Is(err, domain.ErrMissingCredentials):
		return mapped(ErrCodeRefreshRequired, domain.MessageReconnect, "authData.access_token")
	case errors.Is(err, domain.ErrInvalidSignature):
		return mapped(ErrCodeInvalidSignature, err.Error(), "")
	case errors.Is(err, domain.ErrUnknownHandler):
		return mapped(ErrCodeNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrAuthorizationNotFound):
		return mapped(ErrCodeInvalidState, err.Error(), "state")
	case errors.Is(err, oauth.ErrMissingCode):
		return mapped(ErrCodeValidation, err.Error(), "code")
	case errors.Is(err, oauth.ErrMissingToken):
		return mapped(ErrCodeValidation, err.Error(), "refresh_token")
	case errors.Is(err, domain.ErrMalformedResponse):
		return mapped(ErrCodeBadGateway, err.Error(), "")
	case errors.Is(err, context.Canceled):
		return mapped(ErrCodeCanceled, "request canceled", "")
	case errors.Is(err, context.DeadlineExceeded):
		return MappedError{
			Status: http.StatusGatewayTimeout,
			Info:   ErrorInfo{Code: ErrCodeBadGateway, Message: "ERP backend timed out"},
		}
	case errors.Is(err, erpclient.ErrRequestFailed):
		return mapped(ErrCodeBadGateway, "ERP backend unreachable", "")
	case errors.Is(err, oauth.ErrNoStateStore),
		errors.Is(err, oauth.ErrMissingClientID),
		errors.Is(err, oauth.ErrMissingBaseURL):
		return mapped(ErrCodeInternal, "OAuth is not configured on this service", "")
	}

	return mapped(ErrCodeInternal, "Internal server error", "")
}

func mapped(code, message, field string) MappedError {
	return MappedError{
		Status: GetHTTPStatus(code),
		Info:   ErrorInfo{Code: code, Message: message, Field: field},
	}
}
