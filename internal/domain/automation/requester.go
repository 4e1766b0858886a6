package automation

import (
	"context"
	"encoding/json"
	"net/url"
)

// Request describes one call against the ERP API. Path is relative to the
// configured base URL unless it is absolute.
type Request struct {
	Method  string
	Path    string
	Params  url.Values
	Body    any
	Headers map[string]string
}

// Requester is the capability injected into every handler. Implementations
// attach the bearer token from creds and translate failures into
// AuthenticationError, ThrottledError or APIError. Transport failures are
// returned wrapped and unchanged.
type Requester interface {
	Request(ctx context.Context, creds Credentials, req Request) (json.RawMessage, error)
}
