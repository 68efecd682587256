package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when creating a user with an email
	// that is already registered
	ErrEmailExists = errors.New("email already registered")

	// ErrUpdateConflict is returned when an update carries a stale
	// Version, meaning the record changed since it was read
	ErrUpdateConflict = errors.New("user record was modified concurrently")

	// ErrInvalidUserParams marks a request rejected by field validation.
	// The wrapped message is safe to show to the caller.
	ErrInvalidUserParams = errors.New("invalid user parameters")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)

	// UpdateUser persists the mutable authentication and profile state of
	// an existing user. The update is conditional on u.Version matching
	// the stored row; a lost-update race returns ErrUpdateConflict.
	UpdateUser(ctx context.Context, u User) (User, error)

	// Auth history audit trail
	AddAuthHistory(ctx context.Context, rec AuthHistoryRecord) error
	CloseAuthHistory(ctx context.Context, userID uuid.UUID, method AuthMethod, provider string) error
	ListAuthHistory(ctx context.Context, userID uuid.UUID) ([]AuthHistoryRecord, error)

	// End-user profile
	GetProfile(ctx context.Context, userID uuid.UUID) (EndUserProfile, error)
	CreateProfile(ctx context.Context, userID uuid.UUID) (EndUserProfile, error)
}
