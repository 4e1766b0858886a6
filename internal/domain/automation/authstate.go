package automation

import (
	"context"
	"errors"
	"time"
)

// ErrAuthorizationNotFound is returned when a state is unknown, expired or already used
var ErrAuthorizationNotFound = errors.New("automation: authorization state not found")

// PendingAuthorization is what the service remembers between the authorize
// redirect and the callback of a PKCE flow.
type PendingAuthorization struct {
	State        string    `json:"state"`
	CodeVerifier string    `json:"code_verifier"`
	RedirectURI  string    `json:"redirect_uri"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthorizationStore keeps pending authorizations keyed by state
type AuthorizationStore interface {
	// Put stores p until ttl elapses. An existing state is not overwritten.
	Put(ctx context.Context, p PendingAuthorization, ttl time.Duration) error

	// Take returns and deletes the pending authorization for state.
	// It returns ErrAuthorizationNotFound when there is none.
	Take(ctx context.Context, state string) (PendingAuthorization, error)

	// Close releases resources
	Close() error
}

// ErrAuthorizationExists is returned by Put when the state is already pending
var ErrAuthorizationExists = errors.New("automation: authorization state already pending")
