package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBundle(t *testing.T) {
	b, err := DecodeBundle([]byte(`{
		"authData": {"access_token": "tok", "refresh_token": "ref"},
		"inputData": {"title": "Close Q1 books", "amount": 1500},
		"meta": {"limit": 10, "page": 2},
		"cleanedRequest": {"id": 5}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "tok", b.AuthData.AccessToken)
	assert.Equal(t, "ref", b.AuthData.RefreshToken)
	assert.Equal(t, "1500", b.InputData.String("amount"))
	assert.Equal(t, 10, b.Limit())
	assert.Equal(t, 2, b.Meta.Page)
	assert.True(t, b.HasDelivery())
}

func TestBundle_Defaults(t *testing.T) {
	b, err := DecodeBundle(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, b.Limit())
	assert.False(t, b.HasDelivery())

	b.CleanedRequest = []byte(" null ")
	assert.False(t, b.HasDelivery())
}
