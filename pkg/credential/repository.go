package credential

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialRepository defines the interface for credential-related
// database operations: local password hashes, email confirmation state,
// confirmation tokens, and external-login associations.
type CredentialRepository interface {
	// Local credentials
	GetCredential(ctx context.Context, userID uuid.UUID) (LocalCredential, error)
	SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error
	SetEmailConfirmed(ctx context.Context, userID uuid.UUID) error

	// Confirmation tokens
	CreateConfirmationToken(ctx context.Context, token ConfirmationToken) error
	GetConfirmationToken(ctx context.Context, token string) (ConfirmationToken, error)
	MarkTokenUsed(ctx context.Context, token string, usedAt time.Time) error

	// External logins
	AddExternalLogin(ctx context.Context, login ExternalLogin) error
	RemoveExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey string) error
	FindExternalLogin(ctx context.Context, provider, providerKey string) (ExternalLogin, error)
	ListExternalLogins(ctx context.Context, userID uuid.UUID) ([]ExternalLogin, error)
	CountExternalLogins(ctx context.Context, userID uuid.UUID) (int64, error)
}
