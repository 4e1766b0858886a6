package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	RedirectURI  string `json:"redirect_uri" binding:"omitempty,url"`
}

func bindErr(t *testing.T, body string) error {
	t.Helper()
	SetupValidator()

	var got error
	engine := gin.New()
	engine.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		got = c.ShouldBindJSON(&req)
	})
	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestBindingError(t *testing.T) {
	t.Run("missing field uses json name", func(t *testing.T) {
		err := bindErr(t, `{}`)
		require.Error(t, err)
		verr := BindingError(err)
		assert.Equal(t, "refresh_token", verr.Field)
		assert.Equal(t, "refresh_token is required", verr.Message)
	})

	t.Run("bad url", func(t *testing.T) {
		err := bindErr(t, `{"refresh_token":"r","redirect_uri":"not a url"}`)
		require.Error(t, err)
		verr := BindingError(err)
		assert.Equal(t, "redirect_uri", verr.Field)
		assert.Contains(t, verr.Message, "valid URL")
	})

	t.Run("malformed json", func(t *testing.T) {
		err := bindErr(t, `{"refresh_token":`)
		require.Error(t, err)
		verr := BindingError(err)
		assert.Empty(t, verr.Field)
	})

	t.Run("plain error", func(t *testing.T) {
		verr := BindingError(errors.New("boom"))
		assert.Empty(t, verr.Field)
		assert.NotEmpty(t, verr.Message)
	})
}

func TestBindingError_Valid(t *testing.T) {
	assert.NoError(t, bindErr(t, `{"refresh_token":"r","redirect_uri":"https://host.example/cb"}`))
}
