package signup

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/notification"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// UserCreator is the slice of the user service the signup flow needs.
type UserCreator interface {
	CreateUser(ctx context.Context, params user.CreateUserParams) (user.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
}

// CredentialWriter is the slice of the credential service the signup
// flow needs.
type CredentialWriter interface {
	PasswordPolicy() credential.PasswordPolicy
	SetPassword(ctx context.Context, userID uuid.UUID, password string) error
	CreateConfirmationToken(ctx context.Context, userID uuid.UUID) (string, error)
	ConfirmEmail(ctx context.Context, token string) (uuid.UUID, error)
	AddExternalLogin(ctx context.Context, userID uuid.UUID, provider, providerKey, displayName string) error
}

// HistoryWriter records authentication-method audit rows.
type HistoryWriter interface {
	AddAuthHistory(ctx context.Context, rec user.AuthHistoryRecord) error
}

// RegisterLocalParams carries the fields of a local registration request.
type RegisterLocalParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	UserType  user.UserType
}

// SignupService registers new accounts, local and external.
type SignupService struct {
	users       UserCreator
	credentials CredentialWriter
	history     HistoryWriter
	notifier    *notification.NotificationManager
}

// SignupServiceOption configures a SignupService
type SignupServiceOption func(*SignupService)

// WithNotificationManager enables confirmation and welcome emails.
func WithNotificationManager(nm *notification.NotificationManager) SignupServiceOption {
	return func(s *SignupService) {
		s.notifier = nm
	}
}

// NewSignupService creates a new SignupService
func NewSignupService(users UserCreator, credentials CredentialWriter, history HistoryWriter, opts ...SignupServiceOption) *SignupService {
	service := &SignupService{
		users:       users,
		credentials: credentials,
		history:     history,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// RegisterLocal creates a user with a local password as the primary auth
// method and sends the confirmation email. The account starts
// unconfirmed and cannot sign in until the confirmation link is used.
func (s *SignupService) RegisterLocal(ctx context.Context, params RegisterLocalParams) (user.User, error) {
	if err := s.credentials.PasswordPolicy().CheckComplexity(params.Password); err != nil {
		return user.User{}, err
	}

	u, err := s.users.CreateUser(ctx, user.CreateUserParams{
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		UserType:          params.UserType,
		PrimaryAuthMethod: user.AuthMethodLocal,
	})
	if err != nil {
		return user.User{}, err
	}

	if err := s.credentials.SetPassword(ctx, u.ID, params.Password); err != nil {
		return user.User{}, fmt.Errorf("failed to set password: %w", err)
	}

	// The stored record must carry the flag too, or the duplicate-password
	// and last-method guards misjudge this user later.
	now := time.Now().UTC()
	u.HasLocalPassword = true
	u.LocalPasswordAddedAt = &now
	u, err = s.users.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to persist user: %w", err)
	}

	if err := s.history.AddAuthHistory(ctx, user.AuthHistoryRecord{
		UserID: u.ID,
		Method: user.AuthMethodLocal,
	}); err != nil {
		slog.Error("Failed to record auth history for signup", "userId", u.ID, "err", err)
	}

	if err := s.sendConfirmationEmail(ctx, u); err != nil {
		// the account exists and confirmation can be resent
		slog.Error("Failed to send confirmation email", "userId", u.ID, "err", err)
	}

	slog.Info("Registered local user", "userId", u.ID)
	return u, nil
}

// RegisterExternal creates a user from verified external provider info.
// The external identity becomes the primary auth method and the account
// is treated as confirmed from the start.
func (s *SignupService) RegisterExternal(ctx context.Context, info externalprovider.ExternalUserInfo, userType user.UserType) (user.User, error) {
	method, err := user.ParseAuthMethod(info.Provider)
	if err != nil {
		return user.User{}, err
	}
	if info.Email == "" {
		return user.User{}, fmt.Errorf("external provider did not supply an email")
	}

	firstName, lastName := splitName(info)

	u, err := s.users.CreateUser(ctx, user.CreateUserParams{
		Email:             info.Email,
		FirstName:         firstName,
		LastName:          lastName,
		UserType:          userType,
		PrimaryAuthMethod: method,
	})
	if err != nil {
		return user.User{}, err
	}

	if err := s.credentials.AddExternalLogin(ctx, u.ID, info.Provider, info.ExternalID, info.Name); err != nil {
		return user.User{}, fmt.Errorf("failed to link external login: %w", err)
	}

	if err := s.history.AddAuthHistory(ctx, user.AuthHistoryRecord{
		UserID:   u.ID,
		Method:   method,
		Provider: info.Provider,
	}); err != nil {
		slog.Error("Failed to record auth history for signup", "userId", u.ID, "err", err)
	}

	s.sendWelcomeEmail(u)

	slog.Info("Registered external user", "userId", u.ID, "provider", info.Provider)
	return u, nil
}

// ConfirmEmail consumes a confirmation token and sends the welcome email.
func (s *SignupService) ConfirmEmail(ctx context.Context, tokenValue string) (uuid.UUID, error) {
	userID, err := s.credentials.ConfirmEmail(ctx, tokenValue)
	if err != nil {
		return uuid.Nil, err
	}

	if u, err := s.users.GetUser(ctx, userID); err == nil {
		s.sendWelcomeEmail(u)
	} else {
		slog.Error("Failed to load user after confirmation", "userId", userID, "err", err)
	}
	return userID, nil
}

// ResendConfirmation issues a fresh confirmation token for the account
// and re-sends the confirmation email.
func (s *SignupService) ResendConfirmation(ctx context.Context, email string) error {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.sendConfirmationEmail(ctx, u)
}

func (s *SignupService) sendConfirmationEmail(ctx context.Context, u user.User) error {
	if s.notifier == nil {
		return nil
	}

	tokenValue, err := s.credentials.CreateConfirmationToken(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to create confirmation token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/confirm-email?token=%s",
		strings.TrimRight(s.notifier.BaseURL(), "/"), url.QueryEscape(tokenValue))

	return s.notifier.Send(notification.EmailConfirmationNotice, notification.EmailSystem,
		notification.NotificationData{
			To: u.Email,
			Data: map[string]string{
				"Name":             u.FullName(),
				"ConfirmationLink": link,
			},
		})
}

func (s *SignupService) sendWelcomeEmail(u user.User) {
	if s.notifier == nil {
		return
	}

	link := strings.TrimRight(s.notifier.BaseURL(), "/") + "/dashboard"
	err := s.notifier.Send(notification.WelcomeNotice, notification.EmailSystem,
		notification.NotificationData{
			To: u.Email,
			Data: map[string]string{
				"Name":          u.FullName(),
				"DashboardLink": link,
			},
		})
	if err != nil {
		slog.Error("Failed to send welcome email", "userId", u.ID, "err", err)
	}
}

func splitName(info externalprovider.ExternalUserInfo) (string, string) {
	firstName := info.FirstName
	lastName := info.LastName
	if firstName == "" && info.Name != "" {
		parts := strings.SplitN(info.Name, " ", 2)
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = parts[1]
		}
	}
	if firstName == "" {
		firstName = "Unknown"
	}
	if lastName == "" {
		lastName = "User"
	}
	return firstName, lastName
}
