package authlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// LinkingService manages authentication-method linking for a user
// account: adding a local password, and linking/unlinking external
// provider identities. All operations are check-then-act against the
// current persisted state and side-effecting only on success; the backing
// store is the enforcement point for same-record races.
type LinkingService struct {
	credentials CredentialStore
	users       UserStore
}

// NewLinkingService creates a new linking service
func NewLinkingService(credentials CredentialStore, users UserStore) *LinkingService {
	return &LinkingService{
		credentials: credentials,
		users:       users,
	}
}

// AddLocalPassword sets a local password for a user that has none.
// Returns ErrDuplicatePassword when one is already set.
func (s *LinkingService) AddLocalPassword(ctx context.Context, u user.User, password string) (user.User, error) {
	if u.HasLocalPassword {
		return u, ErrDuplicatePassword
	}

	if err := s.credentials.SetPassword(ctx, u.ID, password); err != nil {
		return u, fmt.Errorf("failed to set password: %w", err)
	}

	now := time.Now().UTC()
	u.HasLocalPassword = true
	u.LocalPasswordAddedAt = &now
	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		return u, fmt.Errorf("failed to persist user: %w", err)
	}

	if err := s.users.AddAuthHistory(ctx, user.AuthHistoryRecord{
		UserID: u.ID,
		Method: user.AuthMethodLocal,
	}); err != nil {
		slog.Error("Failed to record auth history", "userId", u.ID, "err", err)
	}

	slog.Info("Local password added", "userId", u.ID)
	return updated, nil
}

// LinkExternalAccount binds an external (provider, key) identity to the
// user. Returns ErrExternalAccountAlreadyLinked when the pair is already
// held by a different user.
func (s *LinkingService) LinkExternalAccount(ctx context.Context, u user.User, provider, providerKey, providerDisplayName string) error {
	existingID, err := s.credentials.FindUserIDByExternalLogin(ctx, provider, providerKey)
	if err != nil && !errors.Is(err, credential.ErrExternalLoginNotFound) {
		return fmt.Errorf("failed to look up external login: %w", err)
	}
	if err == nil && existingID != u.ID {
		return ErrExternalAccountAlreadyLinked{Provider: providerDisplayName}
	}

	if err := s.credentials.AddExternalLogin(ctx, u.ID, provider, providerKey, providerDisplayName); err != nil {
		if errors.Is(err, credential.ErrExternalLoginExists) {
			return ErrExternalAccountAlreadyLinked{Provider: providerDisplayName}
		}
		return fmt.Errorf("failed to add external login: %w", err)
	}

	method, err := user.ParseAuthMethod(provider)
	if err != nil {
		method = user.AuthMethod(provider)
	}
	if err := s.users.AddAuthHistory(ctx, user.AuthHistoryRecord{
		UserID:   u.ID,
		Method:   method,
		Provider: provider,
	}); err != nil {
		slog.Error("Failed to record auth history", "userId", u.ID, "err", err)
	}

	slog.Info("External login linked", "userId", u.ID, "provider", provider)
	return nil
}

// UnlinkExternalAccount removes an external identity from the user.
// Returns ErrCannotRemoveLastAuthMethod when removing it would leave the
// user with no way to sign in.
func (s *LinkingService) UnlinkExternalAccount(ctx context.Context, u user.User, provider, providerKey string) error {
	if !u.HasLocalPassword {
		// The external-login count comes from the store at guard-check
		// time, not from any in-memory collection.
		count, err := s.credentials.CountExternalLogins(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to count external logins: %w", err)
		}
		if count <= 1 {
			return ErrCannotRemoveLastAuthMethod
		}
	}

	if err := s.credentials.RemoveExternalLogin(ctx, u.ID, provider, providerKey); err != nil {
		return fmt.Errorf("failed to remove external login: %w", err)
	}

	method, err := user.ParseAuthMethod(provider)
	if err != nil {
		method = user.AuthMethod(provider)
	}
	if err := s.users.CloseAuthHistory(ctx, u.ID, method, provider); err != nil {
		slog.Error("Failed to close auth history", "userId", u.ID, "err", err)
	}

	slog.Info("External login unlinked", "userId", u.ID, "provider", provider)
	return nil
}

// HasMultipleAuthMethods reports whether the user currently has both a
// local password and at least one external login, using the store count.
func (s *LinkingService) HasMultipleAuthMethods(ctx context.Context, userID uuid.UUID, hasLocalPassword bool) (bool, error) {
	if !hasLocalPassword {
		return false, nil
	}
	count, err := s.credentials.CountExternalLogins(ctx, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
