package automation

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/automation/internal/infrastructure/oauth"
)

// Authenticator is the OAuth2 flow against the ERP backend
type Authenticator interface {
	BeginAuthorization(ctx context.Context, redirectURI string) (authURL, state string, err error)
	CompleteAuthorization(ctx context.Context, state, code string) (oauth.TokenSet, error)
	ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (oauth.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (oauth.TokenSet, error)
	Verify(ctx context.Context, accessToken string) (oauth.UserProfile, error)
}

var _ Authenticator = (*oauth.Service)(nil)

// ConnectionTest is the result of checking a connected account
type ConnectionTest struct {
	Profile oauth.UserProfile `json:"profile"`
	Label   string            `json:"label"`
}

// ConnectionService connects, refreshes and tests host accounts. It keeps
// no credentials; the host stores the returned tokens.
type ConnectionService struct {
	auth Authenticator
	inst instrumentation
}

// NewConnectionService creates a connection service
func NewConnectionService(auth Authenticator, opts ...Option) *ConnectionService {
	o := registryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &ConnectionService{
		auth: auth,
		inst: instrumentation{logger: o.logger, metrics: o.metrics},
	}
}

// Begin starts an authorization code flow and returns the URL to redirect the user to
func (s *ConnectionService) Begin(ctx context.Context, redirectURI string) (authURL, state string, err error) {
	err = s.inst.run(ctx, KindAuth, "authorize", "begin", func(ctx context.Context) error {
		var err error
		authURL, state, err = s.auth.BeginAuthorization(ctx, redirectURI)
		return err
	})
	return authURL, state, err
}

// Complete finishes a flow started by Begin
func (s *ConnectionService) Complete(ctx context.Context, state, code string) (oauth.TokenSet, error) {
	var tokens oauth.TokenSet
	err := s.inst.run(ctx, KindAuth, "authorize", "complete", func(ctx context.Context) error {
		var err error
		tokens, err = s.auth.CompleteAuthorization(ctx, state, code)
		return err
	})
	return tokens, err
}

// Exchange trades a code for tokens when the host holds the PKCE verifier itself
func (s *ConnectionService) Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (oauth.TokenSet, error) {
	var tokens oauth.TokenSet
	err := s.inst.run(ctx, KindAuth, "token", "exchange", func(ctx context.Context) error {
		var err error
		tokens, err = s.auth.ExchangeCode(ctx, code, redirectURI, codeVerifier)
		return err
	})
	return tokens, err
}

// Refresh obtains a new access token
func (s *ConnectionService) Refresh(ctx context.Context, refreshToken string) (oauth.TokenSet, error) {
	var tokens oauth.TokenSet
	err := s.inst.run(ctx, KindAuth, "refresh", "refresh", func(ctx context.Context) error {
		var err error
		tokens, err = s.auth.Refresh(ctx, refreshToken)
		return err
	})
	return tokens, err
}

// Test verifies the access token and returns the account label
func (s *ConnectionService) Test(ctx context.Context, accessToken string) (ConnectionTest, error) {
	var result ConnectionTest
	err := s.inst.run(ctx, KindAuth, "test", "test", func(ctx context.Context) error {
		profile, err := s.auth.Verify(ctx, accessToken)
		if err != nil {
			return err
		}
		result = ConnectionTest{Profile: profile, Label: oauth.ConnectionLabel(profile)}
		return nil
	})
	return result, err
}
