package signin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceseeker/serviceseeker/pkg/authlink"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/token"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

type signinFixture struct {
	userRepo    *user.InMemoryUserRepository
	userService *user.UserService
	credService *credential.CredentialService
	tracking    *authlink.TrackingService
	service     *SignInService
	hookCalls   int
}

func newSigninFixture(t *testing.T, extraOpts ...SignInServiceOption) *signinFixture {
	t.Helper()

	f := &signinFixture{}
	f.userRepo = user.NewInMemoryUserRepository()
	f.userService = user.NewUserService(f.userRepo)
	f.credService = credential.NewCredentialService(credential.NewInMemoryCredentialRepository())
	f.tracking = authlink.NewTrackingService(f.userRepo)

	confirmation := authlink.NewConfirmationService(f.credService, f.userRepo)
	jwtService := token.NewJwtService(token.NewJwtTokenGenerator("test-secret", "serviceseeker", "serviceseeker-app"))

	opts := []SignInServiceOption{
		WithLoginTracking(f.tracking),
		WithPostSuccessHook(func(ctx context.Context, u user.User, method user.AuthMethod) user.User {
			f.hookCalls++
			return u
		}),
	}
	opts = append(opts, extraOpts...)

	f.service = NewSignInService(f.userService, f.credService, confirmation, jwtService, opts...)
	return f
}

func (f *signinFixture) createLocalUser(t *testing.T, email, password string, confirmed bool) user.User {
	t.Helper()
	ctx := context.Background()

	u, err := f.userService.CreateUser(ctx, user.CreateUserParams{
		Email:             email,
		FirstName:         "Test",
		LastName:          "User",
		PrimaryAuthMethod: user.AuthMethodLocal,
	})
	require.NoError(t, err)
	require.NoError(t, f.credService.SetPassword(ctx, u.ID, password))
	if confirmed {
		tok, err := f.credService.CreateConfirmationToken(ctx, u.ID)
		require.NoError(t, err)
		_, err = f.credService.ConfirmEmail(ctx, tok)
		require.NoError(t, err)
	}
	return u
}

func (f *signinFixture) createExternalUser(t *testing.T, email, provider, providerKey string) user.User {
	t.Helper()
	ctx := context.Background()

	method, err := user.ParseAuthMethod(provider)
	require.NoError(t, err)

	u, err := f.userService.CreateUser(ctx, user.CreateUserParams{
		Email:             email,
		FirstName:         "External",
		LastName:          "User",
		PrimaryAuthMethod: method,
	})
	require.NoError(t, err)
	require.NoError(t, f.credService.AddExternalLogin(ctx, u.ID, provider, providerKey, "Google"))
	return u
}

func TestSignInLocal(t *testing.T) {
	f := newSigninFixture(t)
	u := f.createLocalUser(t, "local@example.com", "Str0ng!Pass", true)

	result, err := f.service.SignInLocal(context.Background(), "local@example.com", "Str0ng!Pass")
	require.NoError(t, err)

	assert.Equal(t, u.ID, result.User.ID)
	assert.Equal(t, user.AuthMethodLocal, result.Method)
	assert.NotEmpty(t, result.Tokens[token.ACCESS_TOKEN_NAME].Token)
	assert.NotEmpty(t, result.Tokens[token.REFRESH_TOKEN_NAME].Token)
	assert.Equal(t, 1, f.hookCalls)

	// tracking hook recorded the login
	assert.NotNil(t, result.User.LastLoginAt)
}

func TestSignInLocalWrongPassword(t *testing.T) {
	f := newSigninFixture(t)
	f.createLocalUser(t, "local@example.com", "Str0ng!Pass", true)

	_, err := f.service.SignInLocal(context.Background(), "local@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, f.hookCalls, "hooks must not fire on failed sign-in")
}

func TestSignInLocalUnknownEmail(t *testing.T) {
	f := newSigninFixture(t)

	_, err := f.service.SignInLocal(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInLocalUnconfirmed(t *testing.T) {
	f := newSigninFixture(t)
	f.createLocalUser(t, "pending@example.com", "Str0ng!Pass", false)

	_, err := f.service.SignInLocal(context.Background(), "pending@example.com", "Str0ng!Pass")
	assert.ErrorIs(t, err, authlink.ErrNotConfirmed)
	assert.Equal(t, 0, f.hookCalls)
}

func TestSignInLocalDisabledAccount(t *testing.T) {
	f := newSigninFixture(t)
	u := f.createLocalUser(t, "gone@example.com", "Str0ng!Pass", true)
	require.NoError(t, f.userService.Deactivate(context.Background(), u.ID))

	_, err := f.service.SignInLocal(context.Background(), "gone@example.com", "Str0ng!Pass")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestSignInExternal(t *testing.T) {
	f := newSigninFixture(t)
	u := f.createExternalUser(t, "ext@example.com", "google", "google-sub-1")

	result, err := f.service.SignInExternal(context.Background(), externalprovider.ExternalUserInfo{
		Provider:   "google",
		ExternalID: "google-sub-1",
		Email:      "ext@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.User.ID)
	assert.Equal(t, user.AuthMethodGoogle, result.Method)
	assert.Equal(t, 1, f.hookCalls)
	assert.NotNil(t, result.User.LastLoginAt)
}

func TestSignInExternalNoLinkedAccount(t *testing.T) {
	f := newSigninFixture(t)

	_, err := f.service.SignInExternal(context.Background(), externalprovider.ExternalUserInfo{
		Provider:   "google",
		ExternalID: "unknown-sub",
	})
	assert.ErrorIs(t, err, ErrNoLinkedAccount)
	assert.Equal(t, 0, f.hookCalls)
}

func TestSignInExternalSkipsConfirmationGate(t *testing.T) {
	// external-primary users never owe an initial email confirmation
	f := newSigninFixture(t)
	f.createExternalUser(t, "ext@example.com", "linkedin", "li-sub-1")

	result, err := f.service.SignInExternal(context.Background(), externalprovider.ExternalUserInfo{
		Provider:   "linkedin",
		ExternalID: "li-sub-1",
	})
	require.NoError(t, err)
	assert.Equal(t, user.AuthMethodLinkedIn, result.Method)
}

func TestHooksRunInOrder(t *testing.T) {
	var order []string
	f := newSigninFixture(t,
		WithPostSuccessHook(func(ctx context.Context, u user.User, method user.AuthMethod) user.User {
			order = append(order, "first")
			return u
		}),
		WithPostSuccessHook(func(ctx context.Context, u user.User, method user.AuthMethod) user.User {
			order = append(order, "second")
			return u
		}),
	)
	f.createLocalUser(t, "local@example.com", "Str0ng!Pass", true)

	_, err := f.service.SignInLocal(context.Background(), "local@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}
