package externalprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(name string) *ExternalProvider {
	return &ExternalProvider{
		Name:         name,
		DisplayName:  name,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      "https://provider.test/auth",
		TokenURL:     "https://provider.test/token",
		UserInfoURL:  "https://provider.test/userinfo",
		Scopes:       []string{"openid", "email", "profile"},
		Enabled:      true,
	}
}

func TestBeginAuth(t *testing.T) {
	repo := NewInMemoryExternalProviderRepository()
	require.NoError(t, repo.RegisterProvider(testProvider(ProviderGoogle)))

	service := NewExternalProviderService(repo, "https://app.test/callback")

	authURL, err := service.BeginAuth(ProviderGoogle, "/dashboard")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "provider.test", parsed.Host)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "https://app.test/callback", parsed.Query().Get("redirect_uri"))

	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	stored, err := repo.ConsumeState(state)
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, stored.Provider)
	assert.Equal(t, "/dashboard", stored.RedirectURL)
}

func TestBeginAuthDisabledProvider(t *testing.T) {
	repo := NewInMemoryExternalProviderRepository()
	p := testProvider(ProviderLinkedIn)
	p.Enabled = false
	require.NoError(t, repo.RegisterProvider(p))

	service := NewExternalProviderService(repo, "https://app.test/callback")

	_, err := service.BeginAuth(ProviderLinkedIn, "")
	assert.Error(t, err)
}

func TestBeginAuthUnknownProvider(t *testing.T) {
	repo := NewInMemoryExternalProviderRepository()
	service := NewExternalProviderService(repo, "https://app.test/callback")

	_, err := service.BeginAuth("facebook", "")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestCompleteAuth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sub":            "ext-12345",
			"email":          "user@example.com",
			"email_verified": true,
			"name":           "Test User",
			"given_name":     "Test",
			"family_name":    "User",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	provider := testProvider(ProviderGoogle)
	provider.TokenURL = server.URL + "/token"
	provider.UserInfoURL = server.URL + "/userinfo"

	repo := NewInMemoryExternalProviderRepository()
	require.NoError(t, repo.RegisterProvider(provider))
	require.NoError(t, repo.StoreState(&OAuth2State{
		State:     "test-state",
		Provider:  ProviderGoogle,
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	}))

	service := NewExternalProviderService(repo, "https://app.test/callback")

	info, err := service.CompleteAuth(context.Background(), ProviderGoogle, "test-state", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, info.Provider)
	assert.Equal(t, "ext-12345", info.ExternalID)
	assert.Equal(t, "user@example.com", info.Email)
	assert.True(t, info.EmailVerified)
	assert.Equal(t, "Test", info.FirstName)
	assert.Equal(t, "User", info.LastName)
}

func TestCompleteAuthStateReuse(t *testing.T) {
	repo := NewInMemoryExternalProviderRepository()
	require.NoError(t, repo.RegisterProvider(testProvider(ProviderGoogle)))
	require.NoError(t, repo.StoreState(&OAuth2State{
		State:     "one-shot",
		Provider:  ProviderGoogle,
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	}))

	_, err := repo.ConsumeState("one-shot")
	require.NoError(t, err)

	_, err = repo.ConsumeState("one-shot")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestConsumeStateExpired(t *testing.T) {
	repo := NewInMemoryExternalProviderRepository()
	require.NoError(t, repo.StoreState(&OAuth2State{
		State:     "stale",
		Provider:  ProviderGoogle,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}))

	_, err := repo.ConsumeState("stale")
	assert.ErrorIs(t, err, ErrStateExpired)

	// expired states are deleted on consume
	_, err = repo.ConsumeState("stale")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestCompleteAuthWrongProvider(t *testing.T) {
	repo := NewInMemoryExternalProviderRepository()
	require.NoError(t, repo.RegisterProvider(testProvider(ProviderGoogle)))
	require.NoError(t, repo.StoreState(&OAuth2State{
		State:     "mismatched",
		Provider:  ProviderMicrosoft,
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	}))

	service := NewExternalProviderService(repo, "https://app.test/callback")

	_, err := service.CompleteAuth(context.Background(), ProviderGoogle, "mismatched", "code")
	assert.Error(t, err)
}
