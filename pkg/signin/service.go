package signin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/serviceseeker/serviceseeker/pkg/authlink"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/token"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// UserStore is the slice of the user service the sign-in flow needs.
type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// CredentialStore is the slice of the credential service the sign-in
// flow needs.
type CredentialStore interface {
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error)
	FindUserIDByExternalLogin(ctx context.Context, provider, providerKey string) (uuid.UUID, error)
}

// ConfirmationChecker gates local sign-in on email confirmation.
type ConfirmationChecker interface {
	IsConfirmed(ctx context.Context, u user.User) (bool, error)
}

// PostSuccessHook runs after a successful sign-in, before tokens are
// issued. Hooks may update the user (e.g. login tracking) and must not
// fail the sign-in; the returned user feeds the next hook.
type PostSuccessHook func(ctx context.Context, u user.User, method user.AuthMethod) user.User

// SignInResult carries the signed-in user and their issued tokens.
type SignInResult struct {
	User   user.User
	Method user.AuthMethod
	Tokens map[string]token.AuthToken
}

// SignInService runs the local and external sign-in flows.
type SignInService struct {
	users        UserStore
	credentials  CredentialStore
	confirmation ConfirmationChecker
	jwtService   *token.JwtService
	hooks        []PostSuccessHook
}

// SignInServiceOption configures a SignInService
type SignInServiceOption func(*SignInService)

// WithPostSuccessHook registers a hook to run after each successful
// sign-in, in registration order.
func WithPostSuccessHook(hook PostSuccessHook) SignInServiceOption {
	return func(s *SignInService) {
		s.hooks = append(s.hooks, hook)
	}
}

// WithLoginTracking registers the standard tracking hook.
func WithLoginTracking(tracking *authlink.TrackingService) SignInServiceOption {
	return WithPostSuccessHook(func(ctx context.Context, u user.User, method user.AuthMethod) user.User {
		return tracking.TrackLogin(ctx, u, method == user.AuthMethodLocal)
	})
}

// NewSignInService creates a new SignInService
func NewSignInService(users UserStore, credentials CredentialStore, confirmation ConfirmationChecker, jwtService *token.JwtService, opts ...SignInServiceOption) *SignInService {
	service := &SignInService{
		users:        users,
		credentials:  credentials,
		confirmation: confirmation,
		jwtService:   jwtService,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// SignInLocal authenticates a user by email and password. Unknown emails
// and wrong passwords both return ErrInvalidCredentials. Local users who
// have never confirmed their email are rejected with
// authlink.ErrNotConfirmed.
func (s *SignInService) SignInLocal(ctx context.Context, email, password string) (SignInResult, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.IsActive {
		return SignInResult{}, ErrAccountDisabled
	}

	ok, err := s.credentials.VerifyPassword(ctx, u.ID, password)
	if err != nil {
		if errors.Is(err, credential.ErrCredentialNotFound) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return SignInResult{}, ErrInvalidCredentials
	}

	confirmed, err := s.confirmation.IsConfirmed(ctx, u)
	if err != nil {
		slog.Error("Confirmation check failed during sign-in", "userId", u.ID, "err", err)
		return SignInResult{}, fmt.Errorf("failed to check email confirmation: %w", err)
	}
	if !confirmed {
		return SignInResult{}, authlink.ErrNotConfirmed
	}
	// IsConfirmed persisted the latch; reflect it in this copy too
	u.InitialEmailConfirmed = true

	return s.finishSignIn(ctx, u, user.AuthMethodLocal)
}

// SignInExternal signs a user in with verified info from an external
// provider. The caller has already completed the OAuth2 exchange. When no
// account is linked to the external identity, ErrNoLinkedAccount is
// returned so the caller can offer registration instead.
func (s *SignInService) SignInExternal(ctx context.Context, info externalprovider.ExternalUserInfo) (SignInResult, error) {
	userID, err := s.credentials.FindUserIDByExternalLogin(ctx, info.Provider, info.ExternalID)
	if err != nil {
		if errors.Is(err, credential.ErrExternalLoginNotFound) {
			return SignInResult{}, ErrNoLinkedAccount
		}
		return SignInResult{}, fmt.Errorf("failed to look up external login: %w", err)
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return SignInResult{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !u.IsActive {
		return SignInResult{}, ErrAccountDisabled
	}

	method, err := user.ParseAuthMethod(info.Provider)
	if err != nil {
		return SignInResult{}, err
	}

	return s.finishSignIn(ctx, u, method)
}

// finishSignIn runs the post-success hooks once, then issues tokens.
func (s *SignInService) finishSignIn(ctx context.Context, u user.User, method user.AuthMethod) (SignInResult, error) {
	for _, hook := range s.hooks {
		u = hook(ctx, u, method)
	}

	tokens, err := s.jwtService.GenerateTokens(u.ID.String(), map[string]interface{}{
		"email":          u.Email,
		"email_verified": u.InitialEmailConfirmed,
		"name":           u.FullName(),
		"user_type":      string(u.UserType),
		"auth_method":    string(method),
	})
	if err != nil {
		return SignInResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	slog.Info("User signed in", "userId", u.ID, "method", method)
	return SignInResult{User: u, Method: method, Tokens: tokens}, nil
}
