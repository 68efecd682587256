package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// UserService provides user account operations
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// CreateUser creates a new platform user
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if params.Email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidUserParams)
	}
	if !strings.Contains(params.Email, "@") {
		return User{}, fmt.Errorf("%w: malformed email address", ErrInvalidUserParams)
	}
	if params.FirstName == "" || params.LastName == "" {
		return User{}, fmt.Errorf("%w: first and last name are required", ErrInvalidUserParams)
	}
	if params.UserType == "" {
		params.UserType = UserTypeNotSet
	}
	if params.PrimaryAuthMethod == "" {
		params.PrimaryAuthMethod = AuthMethodLocal
	}

	u, err := s.repo.CreateUser(ctx, params)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("Created user", "userId", u.ID, "primaryAuthMethod", u.PrimaryAuthMethod)
	return u, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// UpdateUser persists changes to a user record
func (s *UserService) UpdateUser(ctx context.Context, u User) (User, error) {
	return s.repo.UpdateUser(ctx, u)
}

// SetUserType records the user's chosen role and creates the end-user
// profile when the user registers as an end user.
func (s *UserService) SetUserType(ctx context.Context, id uuid.UUID, userType UserType) (User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.UserType = userType
	updated, err := s.repo.UpdateUser(ctx, u)
	if err != nil {
		return User{}, fmt.Errorf("failed to set user type: %w", err)
	}
	if userType == UserTypeEndUser {
		if _, err := s.repo.CreateProfile(ctx, id); err != nil {
			return User{}, fmt.Errorf("failed to create end-user profile: %w", err)
		}
	}
	return updated, nil
}

// MarkProfileComplete flags the user's profile as complete
func (s *UserService) MarkProfileComplete(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.IsProfileComplete = true
	return s.repo.UpdateUser(ctx, u)
}

// Deactivate disables a user account without deleting it
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	u.IsActive = false
	if _, err := s.repo.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	slog.Info("Deactivated user", "userId", id)
	return nil
}

// AuthHistory returns the authentication-method audit trail for a user
func (s *UserService) AuthHistory(ctx context.Context, id uuid.UUID) ([]AuthHistoryRecord, error) {
	return s.repo.ListAuthHistory(ctx, id)
}
