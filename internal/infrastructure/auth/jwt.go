package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/erp/automation/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrMissingSecret    = errors.New("host jwt secret is not configured")
)

// Claims identify the host platform account calling the service
type Claims struct {
	jwt.RegisteredClaims
	Platform string   `json:"platform,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
}

// HasScope reports whether the token grants scope. Tokens without scopes grant everything.
func (c *Claims) HasScope(scope string) bool {
	return len(c.Scopes) == 0 || slices.Contains(c.Scopes, scope)
}

// IssueInput contains input for token generation
type IssueInput struct {
	Subject  string
	Platform string
	Scopes   []string
	TTL      time.Duration // zero uses the configured TTL
}

// HostTokenService signs and validates the HS256 tokens the host platform
// presents to this service
type HostTokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewHostTokenService creates a token service
func NewHostTokenService(cfg config.HostConfig) *HostTokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HostTokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Enabled reports whether a secret is configured
func (s *HostTokenService) Enabled() bool {
	return len(s.secret) > 0
}

// Issue signs a token for a host account
func (s *HostTokenService) Issue(input IssueInput) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrMissingSecret
	}
	if input.Subject == "" {
		return "", time.Time{}, ErrMissingSubject
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   input.Subject,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Platform: input.Platform,
		Scopes:   input.Scopes,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses tokenString and checks signature, issuer, audience and lifetime
func (s *HostTokenService) Validate(tokenString string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}
