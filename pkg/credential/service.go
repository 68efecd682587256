package credential

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CredentialService is the credential store for the platform: it owns
// password hashing, email-confirmation state and tokens, and the
// external-login associations. Policy decisions live in pkg/authlink;
// this service only stores and verifies.
type CredentialService struct {
	repo        CredentialRepository
	policy      PasswordPolicy
	tokenExpiry time.Duration
}

// CredentialServiceOption defines configuration options
type CredentialServiceOption func(*CredentialService)

// WithPasswordPolicy sets the password complexity policy
func WithPasswordPolicy(policy PasswordPolicy) CredentialServiceOption {
	return func(s *CredentialService) {
		s.policy = policy
	}
}

// WithTokenExpiry sets the confirmation token expiration duration
func WithTokenExpiry(expiry time.Duration) CredentialServiceOption {
	return func(s *CredentialService) {
		s.tokenExpiry = expiry
	}
}

// NewCredentialService creates a new credential service
func NewCredentialService(repo CredentialRepository, opts ...CredentialServiceOption) *CredentialService {
	service := &CredentialService{
		repo:        repo,
		policy:      DefaultPasswordPolicy(),
		tokenExpiry: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// PasswordPolicy returns the active password complexity policy
func (s *CredentialService) PasswordPolicy() PasswordPolicy {
	return s.policy
}

// SetPassword checks complexity, hashes and stores a password for a user
func (s *CredentialService) SetPassword(ctx context.Context, userID uuid.UUID, password string) error {
	if err := s.policy.CheckComplexity(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.SetPasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	slog.Info("Password set", "userId", userID)
	return nil
}

// VerifyPassword checks a plain-text password against the stored hash
func (s *CredentialService) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	cred, err := s.repo.GetCredential(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(cred.PasswordHash) == 0 {
		return false, nil
	}
	return CheckPasswordHash(password, cred.PasswordHash)
}

// IsEmailConfirmed reports whether the user's email address has been
// confirmed. A user without a credential record has not confirmed.
func (s *CredentialService) IsEmailConfirmed(ctx context.Context, userID uuid.UUID) (bool, error) {
	cred, err := s.repo.GetCredential(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return false, nil
		}
		return false, err
	}
	return cred.EmailConfirmed, nil
}

// generateToken generates a cryptographically secure random token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateConfirmationToken creates a new email-confirmation token for a user
func (s *CredentialService) CreateConfirmationToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	err = s.repo.CreateConfirmationToken(ctx, ConfirmationToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.tokenExpiry),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConfirmEmail validates a confirmation token and marks the owning user's
// email as confirmed. Returns the user ID the token belonged to.
func (s *CredentialService) ConfirmEmail(ctx context.Context, token string) (uuid.UUID, error) {
	t, err := s.repo.GetConfirmationToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	if t.UsedAt != nil {
		return uuid.Nil, ErrTokenAlreadyUsed
	}
	now := time.Now().UTC()
	if now.After(t.ExpiresAt) {
		return uuid.Nil, ErrTokenExpired
	}
	if err := s.repo.MarkTokenUsed(ctx, token, now); err != nil {
		return uuid.Nil, err
	}
	if err := s.repo.SetEmailConfirmed(ctx, t.UserID); err != nil {
		return uuid.Nil, err
	}
	slog.Info("Email confirmed", "userId", t.UserID)
	return t.UserID, nil
}

// AddExternalLogin records a (provider, key) association for a user
func (s *CredentialService) AddExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey, displayName string) error {
	return s.repo.AddExternalLogin(ctx, ExternalLogin{
		UserID:      userID,
		Provider:    provider,
		ProviderKey: providerKey,
		DisplayName: displayName,
	})
}

// RemoveExternalLogin removes a (provider, key) association for a user
func (s *CredentialService) RemoveExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey string) error {
	return s.repo.RemoveExternalLogin(ctx, userID, provider, providerKey)
}

// FindUserIDByExternalLogin resolves the user currently holding a
// (provider, key) pair. Returns ErrExternalLoginNotFound when nobody does.
func (s *CredentialService) FindUserIDByExternalLogin(ctx context.Context, provider, providerKey string) (uuid.UUID, error) {
	login, err := s.repo.FindExternalLogin(ctx, provider, providerKey)
	if err != nil {
		return uuid.Nil, err
	}
	return login.UserID, nil
}

// ListExternalLogins returns all external logins for a user
func (s *CredentialService) ListExternalLogins(ctx context.Context, userID uuid.UUID) ([]ExternalLogin, error) {
	return s.repo.ListExternalLogins(ctx, userID)
}

// CountExternalLogins returns the authoritative number of external logins
// for a user, straight from the store.
func (s *CredentialService) CountExternalLogins(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountExternalLogins(ctx, userID)
}
