package externalprovider

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ExternalProviderService drives the OAuth2 dance against the configured
// identity providers: building authorization URLs with server-side state,
// exchanging callback codes for tokens, and fetching normalized user info.
type ExternalProviderService struct {
	repo        ExternalProviderRepository
	redirectURI string
	stateExpiry time.Duration
}

// ExternalProviderServiceOption defines configuration options
type ExternalProviderServiceOption func(*ExternalProviderService)

// WithStateExpiry sets how long an OAuth2 state value stays valid
func WithStateExpiry(expiry time.Duration) ExternalProviderServiceOption {
	return func(s *ExternalProviderService) {
		s.stateExpiry = expiry
	}
}

// NewExternalProviderService creates a new external provider service
func NewExternalProviderService(repo ExternalProviderRepository, redirectURI string, opts ...ExternalProviderServiceOption) *ExternalProviderService {
	service := &ExternalProviderService{
		repo:        repo,
		redirectURI: redirectURI,
		stateExpiry: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func generateState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// BeginAuth generates and stores a state value and returns the provider's
// authorization URL to redirect the user to.
func (s *ExternalProviderService) BeginAuth(providerName, returnURL string) (string, error) {
	provider, err := s.repo.GetProvider(providerName)
	if err != nil {
		return "", err
	}
	if !provider.Enabled {
		return "", fmt.Errorf("provider disabled: %s", providerName)
	}

	state, err := generateState()
	if err != nil {
		return "", err
	}
	err = s.repo.StoreState(&OAuth2State{
		State:       state,
		Provider:    providerName,
		RedirectURL: returnURL,
		ExpiresAt:   time.Now().Add(s.stateExpiry).Unix(),
	})
	if err != nil {
		return "", err
	}

	return provider.OAuth2Config(s.redirectURI).AuthCodeURL(state), nil
}

// CompleteAuth validates the callback state, exchanges the authorization
// code for a token, and fetches normalized user info from the provider.
func (s *ExternalProviderService) CompleteAuth(ctx context.Context, providerName, stateValue, code string) (ExternalUserInfo, error) {
	state, err := s.repo.ConsumeState(stateValue)
	if err != nil {
		return ExternalUserInfo{}, err
	}
	if state.Provider != providerName {
		return ExternalUserInfo{}, fmt.Errorf("state does not match provider %s", providerName)
	}

	provider, err := s.repo.GetProvider(providerName)
	if err != nil {
		return ExternalUserInfo{}, err
	}

	conf := provider.OAuth2Config(s.redirectURI)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		slog.Error("OAuth2 code exchange failed", "provider", providerName, "err", err)
		return ExternalUserInfo{}, fmt.Errorf("code exchange failed: %w", err)
	}

	client := conf.Client(ctx, token)
	info, err := fetchUserInfo(ctx, client, provider)
	if err != nil {
		return ExternalUserInfo{}, err
	}
	slog.Info("External authentication completed", "provider", providerName, "externalId", info.ExternalID)
	return info, nil
}

// EnabledProviders returns the providers users may sign in with
func (s *ExternalProviderService) EnabledProviders() (map[string]*ExternalProvider, error) {
	return s.repo.GetEnabledProviders()
}

// userInfoClaims covers the OIDC userinfo fields the three supported
// providers return
type userInfoClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func fetchUserInfo(ctx context.Context, client *http.Client, provider *ExternalProvider) (ExternalUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.UserInfoURL, nil)
	if err != nil {
		return ExternalUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return ExternalUserInfo{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ExternalUserInfo{}, fmt.Errorf("userinfo request returned %d: %s", resp.StatusCode, body)
	}

	var claims userInfoClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return ExternalUserInfo{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if claims.Sub == "" {
		return ExternalUserInfo{}, fmt.Errorf("userinfo missing subject")
	}

	return ExternalUserInfo{
		Provider:      provider.Name,
		ExternalID:    claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		FirstName:     claims.GivenName,
		LastName:      claims.FamilyName,
		Picture:       claims.Picture,
	}, nil
}
