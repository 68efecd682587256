package credential

import (
	"time"

	"github.com/google/uuid"
)

// ExternalLogin associates a (provider, provider-assigned key) pair with
// exactly one user. A given pair is linked to at most one user at a time.
type ExternalLogin struct {
	UserID      uuid.UUID
	Provider    string
	ProviderKey string
	DisplayName string
	LinkedAt    time.Time
}

// LocalCredential holds the hashed password for a user
type LocalCredential struct {
	UserID         uuid.UUID
	PasswordHash   []byte
	EmailConfirmed bool
	UpdatedAt      time.Time
}

// ConfirmationToken is a pending email-confirmation token
type ConfirmationToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	UsedAt    *time.Time
}
