package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCredentialRepository implements CredentialRepository using PostgreSQL
type PostgresCredentialRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCredentialRepository creates a new PostgreSQL-based credential repository
func NewPostgresCredentialRepository(pool *pgxpool.Pool) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{
		pool: pool,
	}
}

// GetCredential retrieves the local credential record for a user
func (r *PostgresCredentialRepository) GetCredential(ctx context.Context, userID uuid.UUID) (LocalCredential, error) {
	const q = `
		SELECT user_id, password_hash, email_confirmed, updated_at
		FROM local_credentials
		WHERE user_id = $1`

	var cred LocalCredential
	err := r.pool.QueryRow(ctx, q, userID).Scan(&cred.UserID, &cred.PasswordHash,
		&cred.EmailConfirmed, &cred.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LocalCredential{}, ErrCredentialNotFound
		}
		return LocalCredential{}, err
	}
	return cred, nil
}

// SetPasswordHash stores the hashed password for a user
func (r *PostgresCredentialRepository) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	const q = `
		INSERT INTO local_credentials (user_id, password_hash, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, q, userID, hash); err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	return nil
}

// SetEmailConfirmed marks the user's email address as confirmed
func (r *PostgresCredentialRepository) SetEmailConfirmed(ctx context.Context, userID uuid.UUID) error {
	const q = `
		INSERT INTO local_credentials (user_id, email_confirmed, updated_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET email_confirmed = TRUE, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

// CreateConfirmationToken stores a pending confirmation token
func (r *PostgresCredentialRepository) CreateConfirmationToken(ctx context.Context, token ConfirmationToken) error {
	const q = `
		INSERT INTO confirmation_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, q, token.Token, token.UserID, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create confirmation token: %w", err)
	}
	return nil
}

// GetConfirmationToken retrieves a confirmation token
func (r *PostgresCredentialRepository) GetConfirmationToken(ctx context.Context, token string) (ConfirmationToken, error) {
	const q = `
		SELECT token, user_id, expires_at, used_at
		FROM confirmation_tokens
		WHERE token = $1`

	var t ConfirmationToken
	err := r.pool.QueryRow(ctx, q, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConfirmationToken{}, ErrTokenNotFound
		}
		return ConfirmationToken{}, err
	}
	return t, nil
}

// MarkTokenUsed records the time a confirmation token was consumed
func (r *PostgresCredentialRepository) MarkTokenUsed(ctx context.Context, token string, usedAt time.Time) error {
	const q = `UPDATE confirmation_tokens SET used_at = $2 WHERE token = $1`

	tag, err := r.pool.Exec(ctx, q, token, usedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// AddExternalLogin records a (provider, key) association for a user. The
// unique constraint on (provider, provider_key) guarantees a pair maps to
// at most one user.
func (r *PostgresCredentialRepository) AddExternalLogin(ctx context.Context, login ExternalLogin) error {
	const q = `
		INSERT INTO external_logins (user_id, provider, provider_key, display_name, linked_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (provider, provider_key) DO NOTHING`

	tag, err := r.pool.Exec(ctx, q, login.UserID, login.Provider, login.ProviderKey, login.DisplayName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrExternalLoginExists
		}
		return fmt.Errorf("failed to add external login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Pair already linked. Idempotent when it belongs to the same user.
		existing, err := r.FindExternalLogin(ctx, login.Provider, login.ProviderKey)
		if err != nil {
			return err
		}
		if existing.UserID != login.UserID {
			return ErrExternalLoginExists
		}
	}
	return nil
}

// RemoveExternalLogin removes a (provider, key) association for a user
func (r *PostgresCredentialRepository) RemoveExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey string) error {
	const q = `
		DELETE FROM external_logins
		WHERE user_id = $1 AND provider = $2 AND provider_key = $3`

	tag, err := r.pool.Exec(ctx, q, userID, provider, providerKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExternalLoginNotFound
	}
	return nil
}

// FindExternalLogin looks up the association for a (provider, key) pair
func (r *PostgresCredentialRepository) FindExternalLogin(ctx context.Context, provider, providerKey string) (ExternalLogin, error) {
	const q = `
		SELECT user_id, provider, provider_key, COALESCE(display_name, ''), linked_at
		FROM external_logins
		WHERE provider = $1 AND provider_key = $2`

	var login ExternalLogin
	err := r.pool.QueryRow(ctx, q, provider, providerKey).Scan(&login.UserID,
		&login.Provider, &login.ProviderKey, &login.DisplayName, &login.LinkedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ExternalLogin{}, ErrExternalLoginNotFound
		}
		return ExternalLogin{}, err
	}
	return login, nil
}

// ListExternalLogins returns all external logins for a user
func (r *PostgresCredentialRepository) ListExternalLogins(ctx context.Context, userID uuid.UUID) ([]ExternalLogin, error) {
	const q = `
		SELECT user_id, provider, provider_key, COALESCE(display_name, ''), linked_at
		FROM external_logins
		WHERE user_id = $1
		ORDER BY linked_at`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logins []ExternalLogin
	for rows.Next() {
		var login ExternalLogin
		if err := rows.Scan(&login.UserID, &login.Provider, &login.ProviderKey,
			&login.DisplayName, &login.LinkedAt); err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}

// CountExternalLogins returns the number of external logins for a user
func (r *PostgresCredentialRepository) CountExternalLogins(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM external_logins WHERE user_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
