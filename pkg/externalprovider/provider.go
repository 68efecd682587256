package externalprovider

import (
	"fmt"

	"golang.org/x/oauth2"
)

// Provider names supported by the platform. These are also the values
// stored as user.AuthMethod for external-primary users.
const (
	ProviderGoogle    = "google"
	ProviderLinkedIn  = "linkedin"
	ProviderMicrosoft = "microsoft"
)

// ExternalProvider represents an external OAuth2/OIDC identity provider
// configuration
type ExternalProvider struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	TokenURL     string   `json:"token_url"`
	UserInfoURL  string   `json:"user_info_url"`
	Scopes       []string `json:"scopes"`
	Enabled      bool     `json:"enabled"`
}

// OAuth2State is the state parameter used in OAuth2 flows for CSRF
// protection, stored server side until the callback returns.
type OAuth2State struct {
	State       string `json:"state"`
	Provider    string `json:"provider"`
	RedirectURL string `json:"redirect_url,omitempty"`
	ExpiresAt   int64  `json:"expires_at"`
}

// ExternalUserInfo represents normalized user information from external
// providers
type ExternalUserInfo struct {
	Provider      string `json:"provider"`
	ExternalID    string `json:"external_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

// ValidateConfig validates the provider configuration
func (p *ExternalProvider) ValidateConfig() error {
	if p.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if p.ClientID == "" {
		return fmt.Errorf("client ID is required")
	}
	if p.ClientSecret == "" {
		return fmt.Errorf("client secret is required")
	}
	if p.AuthURL == "" || p.TokenURL == "" || p.UserInfoURL == "" {
		return fmt.Errorf("authorization, token and user info URLs are required")
	}
	return nil
}

// OAuth2Config builds the golang.org/x/oauth2 configuration for this
// provider and redirect URI
func (p *ExternalProvider) OAuth2Config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.AuthURL,
			TokenURL: p.TokenURL,
		},
	}
}

// GoogleProvider returns the Google provider configuration
func GoogleProvider(clientID, clientSecret string) *ExternalProvider {
	return &ExternalProvider{
		Name:         ProviderGoogle,
		DisplayName:  "Google",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		UserInfoURL:  "https://openidconnect.googleapis.com/v1/userinfo",
		Scopes:       []string{"openid", "profile", "email"},
		Enabled:      clientID != "" && clientSecret != "",
	}
}

// LinkedInProvider returns the LinkedIn provider configuration
func LinkedInProvider(clientID, clientSecret string) *ExternalProvider {
	return &ExternalProvider{
		Name:         ProviderLinkedIn,
		DisplayName:  "LinkedIn",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:     "https://www.linkedin.com/oauth/v2/accessToken",
		UserInfoURL:  "https://api.linkedin.com/v2/userinfo",
		Scopes:       []string{"openid", "profile", "email"},
		Enabled:      clientID != "" && clientSecret != "",
	}
}

// MicrosoftProvider returns the Microsoft provider configuration
func MicrosoftProvider(clientID, clientSecret string) *ExternalProvider {
	return &ExternalProvider{
		Name:         ProviderMicrosoft,
		DisplayName:  "Microsoft",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
		TokenURL:     "https://login.microsoftonline.com/common/oauth2/v2.0/token",
		UserInfoURL:  "https://graph.microsoft.com/oidc/userinfo",
		Scopes:       []string{"openid", "profile", "email"},
		Enabled:      clientID != "" && clientSecret != "",
	}
}
