package automation

import (
	"bytes"
	"encoding/json"
)

// DefaultListLimit is the page size used when the host does not send one
const DefaultListLimit = 100

// Credentials is the token pair owned by the host and passed in by value
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Meta carries host paging hints
type Meta struct {
	Limit           int  `json:"limit,omitempty"`
	Page            int  `json:"page,omitempty"`
	IsLoadingSample bool `json:"isLoadingSample,omitempty"`
}

// Bundle is the per-invocation context supplied by the host platform
type Bundle struct {
	AuthData       Credentials     `json:"authData"`
	InputData      Record          `json:"inputData,omitempty"`
	Meta           Meta            `json:"meta"`
	TargetURL      string          `json:"targetUrl,omitempty"`
	SubscribeData  Record          `json:"subscribeData,omitempty"`
	CleanedRequest json.RawMessage `json:"cleanedRequest,omitempty"`
}

// DecodeBundle parses a bundle keeping numbers exact
func DecodeBundle(data []byte) (Bundle, error) {
	var b Bundle
	if len(bytes.TrimSpace(data)) == 0 {
		return b, nil
	}
	if err := decodeJSON(data, &b); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// HasDelivery reports whether the host passed a webhook-pushed payload
func (b Bundle) HasDelivery() bool {
	trimmed := bytes.TrimSpace(b.CleanedRequest)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Limit returns the requested page size or the default
func (b Bundle) Limit() int {
	if b.Meta.Limit > 0 {
		return b.Meta.Limit
	}
	return DefaultListLimit
}
