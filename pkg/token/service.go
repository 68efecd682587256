package token

import (
	"fmt"
	"time"
)

// Token type constants
const (
	ACCESS_TOKEN_NAME  = "access_token"
	REFRESH_TOKEN_NAME = "refresh_token"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 24 * time.Hour
)

// AuthToken represents a signed token with its expiry time
type AuthToken struct {
	Token  string
	Expiry time.Time
}

// JwtService issues access and refresh token pairs
type JwtService struct {
	generator TokenGenerator

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// JwtServiceOption is a function that configures a JwtService
type JwtServiceOption func(*JwtService)

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.AccessTokenExpiry = expiry
	}
}

// WithRefreshTokenExpiry sets the refresh token expiry duration
func WithRefreshTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.RefreshTokenExpiry = expiry
	}
}

// NewJwtService creates a new JwtService with the given generator and options
func NewJwtService(generator TokenGenerator, opts ...JwtServiceOption) *JwtService {
	service := &JwtService{
		generator:          generator,
		AccessTokenExpiry:  DefaultAccessTokenExpiry,
		RefreshTokenExpiry: DefaultRefreshTokenExpiry,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// GenerateTokens creates an access and refresh token pair for the subject.
// extraClaims end up in both tokens.
func (js *JwtService) GenerateTokens(subject string, extraClaims map[string]interface{}) (map[string]AuthToken, error) {
	accessToken, accessExpiry, err := js.generator.GenerateToken(subject, js.AccessTokenExpiry, extraClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiry, err := js.generator.GenerateToken(subject, js.RefreshTokenExpiry, extraClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return map[string]AuthToken{
		ACCESS_TOKEN_NAME:  {Token: accessToken, Expiry: accessExpiry},
		REFRESH_TOKEN_NAME: {Token: refreshToken, Expiry: refreshExpiry},
	}, nil
}

// ParseToken parses and validates a token string
func (js *JwtService) ParseToken(tokenStr string) (string, error) {
	token, err := js.generator.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read token subject: %w", err)
	}
	return subject, nil
}
