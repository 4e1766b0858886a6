// Package oauth implements the OAuth2 authorization-code flow with PKCE
// against the ERP's own authorization server.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/erpclient"
	"github.com/erp/automation/internal/infrastructure/logger"
)

const (
	AuthorizePath = "/api/oauth/authorize"
	TokenPath     = "/api/oauth/token"
	ProfilePath   = "/api/trpc/auth.me"

	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"

	defaultStateTTL = 10 * time.Minute
	labelSuffix     = "ERP"
)

const (
	msgExchangeFailed = "Unable to fetch access token"
	msgRefreshFailed  = "Unable to refresh access token"
	msgVerifyFailed   = "Authentication failed"
	msgNoProfile      = "Unable to fetch user information"
)

var (
	ErrMissingClientID = errors.New("oauth: client id is required")
	ErrMissingBaseURL  = errors.New("oauth: base url is required")
	ErrNoStateStore    = errors.New("oauth: no authorization store configured")
	ErrMissingCode     = errors.New("oauth: authorization code is required")
	ErrMissingToken    = errors.New("oauth: refresh token is required")
)

// Transport sends untranslated requests to the ERP API
type Transport interface {
	Do(ctx context.Context, req automation.Request) (*erpclient.Response, error)
}

// Config holds OAuth client settings
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	StateTTL     time.Duration
}

// TokenSet is the result of a code exchange or refresh
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Credentials returns the token pair in the shape handlers consume
func (t TokenSet) Credentials() automation.Credentials {
	return automation.Credentials{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

// UserProfile is the authenticated backend user
type UserProfile struct {
	ID    string            `json:"id"`
	Name  string            `json:"name,omitempty"`
	Email string            `json:"email,omitempty"`
	Raw   automation.Record `json:"raw,omitempty"`
}

// ConnectionLabel names a connection in the host UI: "{name or email} - ERP"
func ConnectionLabel(p UserProfile) string {
	who := p.Name
	if who == "" {
		who = p.Email
	}
	return who + " - " + labelSuffix
}

// Service runs the credential flow. It holds no tokens.
type Service struct {
	cfg       Config
	oauth2    *oauth2.Config
	transport Transport
	store     automation.AuthorizationStore
	logger    *zap.Logger
}

// NewService creates the OAuth service. store may be nil when only the
// stateless exchange, refresh and verify operations are used.
func NewService(cfg Config, transport Transport, store automation.AuthorizationStore, l *zap.Logger) (*Service, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"read", "write"}
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = defaultStateTTL
	}
	if l == nil {
		l = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	return &Service{
		cfg: cfg,
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + AuthorizePath,
				TokenURL: base + TokenPath,
			},
		},
		transport: transport,
		store:     store,
		logger:    l,
	}, nil
}

// AuthorizeURL builds the browser redirect carrying the S256 PKCE challenge
// for codeVerifier. An empty redirectURI uses the configured one.
func (s *Service) AuthorizeURL(state, redirectURI, codeVerifier string) string {
	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(codeVerifier)}
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	return s.oauth2.AuthCodeURL(state, opts...)
}

// BeginAuthorization creates a fresh state and verifier, remembers them and
// returns the authorize URL.
func (s *Service) BeginAuthorization(ctx context.Context, redirectURI string) (authURL, state string, err error) {
	if s.store == nil {
		return "", "", ErrNoStateStore
	}
	if redirectURI == "" {
		redirectURI = s.cfg.RedirectURI
	}

	pending := automation.PendingAuthorization{
		State:        uuid.NewString(),
		CodeVerifier: oauth2.GenerateVerifier(),
		RedirectURI:  redirectURI,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Put(ctx, pending, s.cfg.StateTTL); err != nil {
		return "", "", fmt.Errorf("oauth: store authorization state: %w", err)
	}

	logger.WithLogger(ctx, s.logger).Debug("Authorization started", zap.String("state", pending.State))
	return s.AuthorizeURL(pending.State, redirectURI, pending.CodeVerifier), pending.State, nil
}

// CompleteAuthorization consumes the pending state and exchanges the code
// with the remembered verifier. A state can be completed once.
func (s *Service) CompleteAuthorization(ctx context.Context, state, code string) (TokenSet, error) {
	if s.store == nil {
		return TokenSet{}, ErrNoStateStore
	}
	pending, err := s.store.Take(ctx, state)
	if err != nil {
		return TokenSet{}, err
	}
	return s.ExchangeCode(ctx, code, pending.RedirectURI, pending.CodeVerifier)
}

// ExchangeCode trades an authorization code for tokens. Any non-200 answer
// is an AuthenticationError.
func (s *Service) ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (TokenSet, error) {
	if code == "" {
		return TokenSet{}, ErrMissingCode
	}
	if redirectURI == "" {
		redirectURI = s.cfg.RedirectURI
	}
	body := map[string]string{
		"grant_type":    grantAuthorizationCode,
		"client_id":     s.cfg.ClientID,
		"client_secret": s.cfg.ClientSecret,
		"code":          code,
		"redirect_uri":  redirectURI,
	}
	if codeVerifier != "" {
		body["code_verifier"] = codeVerifier
	}
	return s.token(ctx, body, msgExchangeFailed)
}

// Refresh trades a refresh token for a new access token. When the backend
// does not rotate the refresh token the old one is kept. A rejection is an
// AuthenticationError and the connection must be re-authorized; nothing is
// retried.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenSet, error) {
	if refreshToken == "" {
		return TokenSet{}, ErrMissingToken
	}
	tokens, err := s.token(ctx, map[string]string{
		"grant_type":    grantRefreshToken,
		"client_id":     s.cfg.ClientID,
		"client_secret": s.cfg.ClientSecret,
		"refresh_token": refreshToken,
	}, msgRefreshFailed)
	if err != nil {
		return TokenSet{}, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func (s *Service) token(ctx context.Context, body map[string]string, failure string) (TokenSet, error) {
	resp, err := s.transport.Do(ctx, automation.Request{
		Method: http.MethodPost,
		Path:   TokenPath,
		Body:   body,
	})
	if err != nil {
		return TokenSet{}, err
	}
	if err := resp.ThrottleError(); err != nil {
		return TokenSet{}, err
	}
	if resp.StatusCode != http.StatusOK {
		logger.WithLogger(ctx, s.logger).Warn("Token request rejected",
			zap.String("grant_type", body["grant_type"]),
			zap.Int("status", resp.StatusCode),
		)
		return TokenSet{}, automation.NewAuthenticationError(resp.StatusCode, failure)
	}

	var tokens TokenSet
	if err := json.Unmarshal(resp.Body, &tokens); err != nil || tokens.AccessToken == "" {
		return TokenSet{}, automation.NewAuthenticationError(resp.StatusCode, failure)
	}
	return tokens, nil
}

// Verify fetches the profile behind accessToken. A 429 is a ThrottledError;
// any other non-200 answer or a response without user data is an
// AuthenticationError.
func (s *Service) Verify(ctx context.Context, accessToken string) (UserProfile, error) {
	if accessToken == "" {
		return UserProfile{}, automation.ErrMissingCredentials
	}
	resp, err := s.transport.Do(ctx, automation.Request{
		Method:  http.MethodGet,
		Path:    ProfilePath,
		Headers: map[string]string{"Authorization": "Bearer " + accessToken},
	})
	if err != nil {
		return UserProfile{}, err
	}
	if err := resp.ThrottleError(); err != nil {
		return UserProfile{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return UserProfile{}, automation.NewAuthenticationError(resp.StatusCode, msgVerifyFailed)
	}

	var envelope struct {
		Result struct {
			Data json.RawMessage `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return UserProfile{}, automation.NewAuthenticationError(http.StatusUnauthorized, msgNoProfile)
	}
	record, err := automation.DecodeRecord(envelope.Result.Data)
	if err != nil || len(record) == 0 {
		return UserProfile{}, automation.NewAuthenticationError(http.StatusUnauthorized, msgNoProfile)
	}

	return UserProfile{
		ID:    record.ID(),
		Name:  record.String("name"),
		Email: record.String("email"),
		Raw:   record,
	}, nil
}
