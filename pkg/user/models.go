package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuthMethod identifies how a user primarily signs in.
type AuthMethod string

const (
	AuthMethodLocal     AuthMethod = "local"
	AuthMethodGoogle    AuthMethod = "google"
	AuthMethodLinkedIn  AuthMethod = "linkedin"
	AuthMethodMicrosoft AuthMethod = "microsoft"
)

// ParseAuthMethod converts a string into an AuthMethod
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch AuthMethod(s) {
	case AuthMethodLocal, AuthMethodGoogle, AuthMethodLinkedIn, AuthMethodMicrosoft:
		return AuthMethod(s), nil
	}
	return "", fmt.Errorf("unknown auth method: %s", s)
}

// IsExternal reports whether the method is an external identity provider
func (m AuthMethod) IsExternal() bool {
	return m != AuthMethodLocal && m != ""
}

// UserType represents the user's primary role on the platform
type UserType string

const (
	UserTypeNotSet          UserType = "not_set"
	UserTypeEndUser         UserType = "end_user"
	UserTypeServiceProvider UserType = "service_provider"
)

// User represents a platform account in the domain model
type User struct {
	ID                uuid.UUID
	Email             string
	FirstName         string
	LastName          string
	CreatedAt         time.Time
	IsActive          bool
	IsProfileComplete bool
	UserType          UserType

	// Authentication tracking
	PrimaryAuthMethod AuthMethod
	PrimaryAuthSetAt  time.Time

	// Local password state
	HasLocalPassword     bool
	LocalPasswordAddedAt *time.Time

	// One-way latch: once true it never reverts
	InitialEmailConfirmed bool

	LastLoginAt *time.Time

	// Optimistic-concurrency token, incremented by the store on every
	// update. A write carrying a stale Version is rejected with
	// ErrUpdateConflict instead of overwriting a concurrent change.
	Version int64
}

// FullName returns the display name pair joined for presentation
func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// IsExternalPrimary reports whether the user's primary sign-in path is an
// external identity provider.
func (u User) IsExternalPrimary() bool {
	return u.PrimaryAuthMethod.IsExternal()
}

// RequiresEmailConfirmation reports whether the user still owes an initial
// email confirmation. Only local-primary users ever do.
func (u User) RequiresEmailConfirmation() bool {
	return u.PrimaryAuthMethod == AuthMethodLocal && !u.InitialEmailConfirmed
}

// AuthHistoryRecord is one audit row per authentication-method
// addition/removal event.
type AuthHistoryRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Method    AuthMethod
	Provider  string // external provider name, empty for local
	AddedAt   time.Time
	RemovedAt *time.Time
	Active    bool
}

// EndUserProfile holds end-user specific profile data. Addresses owned by
// the profile live in pkg/location.
type EndUserProfile struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// CreateUserParams represents parameters for creating a user
type CreateUserParams struct {
	Email             string
	FirstName         string
	LastName          string
	UserType          UserType
	PrimaryAuthMethod AuthMethod
}
