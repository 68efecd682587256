package authlink

import (
	"context"

	"github.com/google/uuid"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// CredentialStore is the slice of the credential store this package
// consumes. pkg/credential's CredentialService satisfies it.
type CredentialStore interface {
	IsEmailConfirmed(ctx context.Context, userID uuid.UUID) (bool, error)
	SetPassword(ctx context.Context, userID uuid.UUID, password string) error
	AddExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey, displayName string) error
	RemoveExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey string) error

	// FindUserIDByExternalLogin returns credential.ErrExternalLoginNotFound
	// when no user holds the pair.
	FindUserIDByExternalLogin(ctx context.Context, provider, providerKey string) (uuid.UUID, error)

	// CountExternalLogins is the authoritative count, fetched at guard-check
	// time. Never derived from an in-memory collection.
	CountExternalLogins(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserStore is the slice of the user repository this package consumes
type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (user.User, error)

	// UpdateUser returns user.ErrUpdateConflict when the record changed
	// since it was read. Callers refetch and retry or surface the error.
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	AddAuthHistory(ctx context.Context, rec user.AuthHistoryRecord) error
	CloseAuthHistory(ctx context.Context, userID uuid.UUID, method user.AuthMethod, provider string) error
}
