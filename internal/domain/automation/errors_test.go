package automation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		err := NewAPIError(404, "Not Found", "", "")
		assert.Equal(t, "ApiError", err.Code)
		assert.Equal(t, "HTTP 404: Not Found", err.Error())
		assert.Equal(t, 404, err.StatusCode)
	})

	t.Run("backend supplied", func(t *testing.T) {
		err := NewAPIError(400, "Bad Request", "BAD_INPUT", "title is required")
		assert.Equal(t, "BAD_INPUT", err.Code)
		assert.Equal(t, "title is required", err.Error())
	})
}

func TestIsRefreshRequired(t *testing.T) {
	assert.True(t, IsRefreshRequired(NewRefreshRequiredError()))
	assert.True(t, IsRefreshRequired(fmt.Errorf("wrapped: %w", NewRefreshRequiredError())))
	assert.False(t, IsRefreshRequired(NewAuthenticationError(400, "Unable to refresh access token")))
	assert.False(t, IsRefreshRequired(NewThrottledError(time.Second)))
	assert.False(t, IsRefreshRequired(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, MessageReconnect, NewRefreshRequiredError().Error())
	assert.Equal(t, MessageThrottled, NewThrottledError(0).Error())
	assert.Equal(t, "title: is required", NewValidationError("title", "is required").Error())
	assert.Equal(t, "bad", NewValidationError("", "bad").Error())
}
