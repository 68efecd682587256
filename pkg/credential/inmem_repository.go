package credential

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type externalLoginKey struct {
	provider    string
	providerKey string
}

// InMemoryCredentialRepository implements CredentialRepository using
// in-memory storage
type InMemoryCredentialRepository struct {
	mu          sync.RWMutex
	credentials map[uuid.UUID]LocalCredential
	external    map[externalLoginKey]ExternalLogin
	tokens      map[string]ConfirmationToken
}

// NewInMemoryCredentialRepository creates a new in-memory credential repository
func NewInMemoryCredentialRepository() *InMemoryCredentialRepository {
	return &InMemoryCredentialRepository{
		credentials: make(map[uuid.UUID]LocalCredential),
		external:    make(map[externalLoginKey]ExternalLogin),
		tokens:      make(map[string]ConfirmationToken),
	}
}

// GetCredential retrieves the local credential record for a user
func (r *InMemoryCredentialRepository) GetCredential(ctx context.Context, userID uuid.UUID) (LocalCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.credentials[userID]
	if !ok {
		return LocalCredential{}, ErrCredentialNotFound
	}
	return cred, nil
}

// SetPasswordHash stores the hashed password for a user
func (r *InMemoryCredentialRepository) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred := r.credentials[userID]
	cred.UserID = userID
	cred.PasswordHash = hash
	cred.UpdatedAt = time.Now().UTC()
	r.credentials[userID] = cred
	return nil
}

// SetEmailConfirmed marks the user's email address as confirmed
func (r *InMemoryCredentialRepository) SetEmailConfirmed(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred := r.credentials[userID]
	cred.UserID = userID
	cred.EmailConfirmed = true
	cred.UpdatedAt = time.Now().UTC()
	r.credentials[userID] = cred
	return nil
}

// CreateConfirmationToken stores a pending confirmation token
func (r *InMemoryCredentialRepository) CreateConfirmationToken(ctx context.Context, token ConfirmationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token.Token] = token
	return nil
}

// GetConfirmationToken retrieves a confirmation token
func (r *InMemoryCredentialRepository) GetConfirmationToken(ctx context.Context, token string) (ConfirmationToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[token]
	if !ok {
		return ConfirmationToken{}, ErrTokenNotFound
	}
	return t, nil
}

// MarkTokenUsed records the time a confirmation token was consumed
func (r *InMemoryCredentialRepository) MarkTokenUsed(ctx context.Context, token string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return ErrTokenNotFound
	}
	t.UsedAt = &usedAt
	r.tokens[token] = t
	return nil
}

// AddExternalLogin records a (provider, key) association for a user
func (r *InMemoryCredentialRepository) AddExternalLogin(ctx context.Context, login ExternalLogin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := externalLoginKey{provider: login.Provider, providerKey: login.ProviderKey}
	if existing, ok := r.external[key]; ok {
		if existing.UserID == login.UserID {
			return nil // already linked to the same user, idempotent
		}
		return ErrExternalLoginExists
	}
	if login.LinkedAt.IsZero() {
		login.LinkedAt = time.Now().UTC()
	}
	r.external[key] = login
	return nil
}

// RemoveExternalLogin removes a (provider, key) association for a user
func (r *InMemoryCredentialRepository) RemoveExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := externalLoginKey{provider: provider, providerKey: providerKey}
	login, ok := r.external[key]
	if !ok || login.UserID != userID {
		return ErrExternalLoginNotFound
	}
	delete(r.external, key)
	return nil
}

// FindExternalLogin looks up the association for a (provider, key) pair
func (r *InMemoryCredentialRepository) FindExternalLogin(ctx context.Context, provider, providerKey string) (ExternalLogin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	login, ok := r.external[externalLoginKey{provider: provider, providerKey: providerKey}]
	if !ok {
		return ExternalLogin{}, ErrExternalLoginNotFound
	}
	return login, nil
}

// ListExternalLogins returns all external logins for a user
func (r *InMemoryCredentialRepository) ListExternalLogins(ctx context.Context, userID uuid.UUID) ([]ExternalLogin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logins []ExternalLogin
	for _, login := range r.external {
		if login.UserID == userID {
			logins = append(logins, login)
		}
	}
	return logins, nil
}

// CountExternalLogins returns the number of external logins for a user
func (r *InMemoryCredentialRepository) CountExternalLogins(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, login := range r.external {
		if login.UserID == userID {
			count++
		}
	}
	return count, nil
}
