package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL-based user repository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		pool: pool,
	}
}

const userColumns = `id, email, first_name, last_name, created_at, is_active,
	is_profile_complete, user_type, primary_auth_method, primary_auth_set_at,
	has_local_password, local_password_added_at, initial_email_confirmed, last_login_at,
	version`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var userType, authMethod string
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt,
		&u.IsActive, &u.IsProfileComplete, &userType, &authMethod,
		&u.PrimaryAuthSetAt, &u.HasLocalPassword, &u.LocalPasswordAddedAt,
		&u.InitialEmailConfirmed, &u.LastLoginAt, &u.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.UserType = UserType(userType)
	u.PrimaryAuthMethod = AuthMethod(authMethod)
	return u, nil
}

// GetUser retrieves a user by ID
func (r *PostgresUserRepository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1)`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	q := fmt.Sprintf(`
		INSERT INTO users (id, email, first_name, last_name, user_type, primary_auth_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, q, uuid.New(), params.Email,
		params.FirstName, params.LastName, string(params.UserType), string(params.PrimaryAuthMethod)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// UpdateUser persists the mutable state of an existing user. The update
// is conditional on the row still carrying u.Version, so a lost-update
// race returns ErrUpdateConflict instead of overwriting the concurrent
// change.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u User) (User, error) {
	q := fmt.Sprintf(`
		UPDATE users SET
			email = $2,
			first_name = $3,
			last_name = $4,
			is_active = $5,
			is_profile_complete = $6,
			user_type = $7,
			primary_auth_method = $8,
			primary_auth_set_at = $9,
			has_local_password = $10,
			local_password_added_at = $11,
			initial_email_confirmed = initial_email_confirmed OR $12,
			last_login_at = $13,
			version = version + 1
		WHERE id = $1 AND version = $14
		RETURNING %s`, userColumns)

	updated, err := scanUser(r.pool.QueryRow(ctx, q, u.ID, u.Email, u.FirstName,
		u.LastName, u.IsActive, u.IsProfileComplete, string(u.UserType),
		string(u.PrimaryAuthMethod), u.PrimaryAuthSetAt, u.HasLocalPassword,
		u.LocalPasswordAddedAt, u.InitialEmailConfirmed, u.LastLoginAt, u.Version))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// no row matched: either the user is gone or the version is stale
			var exists bool
			if scanErr := r.pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, u.ID).Scan(&exists); scanErr == nil && exists {
				return User{}, ErrUpdateConflict
			}
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// AddAuthHistory appends an auth history record for a user
func (r *PostgresUserRepository) AddAuthHistory(ctx context.Context, rec AuthHistoryRecord) error {
	const q = `
		INSERT INTO user_auth_history (id, user_id, method, external_provider, added_at, is_active)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW(), TRUE)`

	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := r.pool.Exec(ctx, q, id, rec.UserID, string(rec.Method), rec.Provider)
	if err != nil {
		slog.Error("Failed to add auth history", "userId", rec.UserID, "method", rec.Method, "err", err)
		return fmt.Errorf("failed to add auth history: %w", err)
	}
	return nil
}

// CloseAuthHistory marks the active history record for a method as removed
func (r *PostgresUserRepository) CloseAuthHistory(ctx context.Context, userID uuid.UUID, method AuthMethod, provider string) error {
	const q = `
		UPDATE user_auth_history
		SET is_active = FALSE, removed_at = NOW()
		WHERE user_id = $1 AND method = $2
		  AND external_provider IS NOT DISTINCT FROM NULLIF($3, '')
		  AND is_active`

	_, err := r.pool.Exec(ctx, q, userID, string(method), provider)
	if err != nil {
		return fmt.Errorf("failed to close auth history: %w", err)
	}
	return nil
}

// ListAuthHistory returns all auth history records for a user
func (r *PostgresUserRepository) ListAuthHistory(ctx context.Context, userID uuid.UUID) ([]AuthHistoryRecord, error) {
	const q = `
		SELECT id, user_id, method, COALESCE(external_provider, ''), added_at, removed_at, is_active
		FROM user_auth_history
		WHERE user_id = $1
		ORDER BY added_at`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AuthHistoryRecord
	for rows.Next() {
		var rec AuthHistoryRecord
		var method string
		if err := rows.Scan(&rec.ID, &rec.UserID, &method, &rec.Provider,
			&rec.AddedAt, &rec.RemovedAt, &rec.Active); err != nil {
			return nil, err
		}
		rec.Method = AuthMethod(method)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetProfile retrieves the end-user profile for a user
func (r *PostgresUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (EndUserProfile, error) {
	const q = `SELECT id, user_id FROM end_user_profiles WHERE user_id = $1`

	var p EndUserProfile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.ID, &p.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EndUserProfile{}, ErrUserNotFound
		}
		return EndUserProfile{}, err
	}
	return p, nil
}

// CreateProfile creates an end-user profile for a user
func (r *PostgresUserRepository) CreateProfile(ctx context.Context, userID uuid.UUID) (EndUserProfile, error) {
	const q = `
		INSERT INTO end_user_profiles (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id`

	var p EndUserProfile
	err := r.pool.QueryRow(ctx, q, uuid.New(), userID).Scan(&p.ID, &p.UserID)
	if err != nil {
		return EndUserProfile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}
