package signup

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceseeker/serviceseeker/pkg/authlink"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/notification"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

type signupFixture struct {
	userRepo    *user.InMemoryUserRepository
	userService *user.UserService
	credService *credential.CredentialService
	mock        *notification.MockNotifier
	service     *SignupService
}

func newSignupFixture(t *testing.T) *signupFixture {
	t.Helper()

	f := &signupFixture{}
	f.userRepo = user.NewInMemoryUserRepository()
	f.userService = user.NewUserService(f.userRepo)
	f.credService = credential.NewCredentialService(credential.NewInMemoryCredentialRepository())
	f.mock = &notification.MockNotifier{}

	nm, err := notification.NewNotificationManagerWithOptions(
		"https://app.test",
		notification.WithNotifier(notification.EmailSystem, f.mock),
		notification.WithDefaultTemplates(),
	)
	require.NoError(t, err)

	f.service = NewSignupService(f.userService, f.credService, f.userRepo,
		WithNotificationManager(nm))
	return f
}

func TestRegisterLocal(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()

	u, err := f.service.RegisterLocal(ctx, RegisterLocalParams{
		Email:     "new@example.com",
		FirstName: "New",
		LastName:  "User",
		Password:  "Str0ng!Pass",
	})
	require.NoError(t, err)

	assert.Equal(t, user.AuthMethodLocal, u.PrimaryAuthMethod)
	assert.True(t, u.HasLocalPassword)
	assert.False(t, u.InitialEmailConfirmed)

	ok, err := f.credService.VerifyPassword(ctx, u.ID, "Str0ng!Pass")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, f.mock.SentNotifications, 1)
	assert.Equal(t, notification.EmailConfirmationNotice, f.mock.SentNoticeTypes[0])
	assert.Equal(t, "new@example.com", f.mock.SentNotifications[0].To)
	assert.Contains(t, f.mock.SentNotifications[0].Data["ConfirmationLink"], "https://app.test/auth/confirm-email?token=")

	history, err := f.userRepo.ListAuthHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, user.AuthMethodLocal, history[0].Method)
}

func TestRegisterLocalPersistsPasswordFlag(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()

	u, err := f.service.RegisterLocal(ctx, RegisterLocalParams{
		Email:     "flagged@example.com",
		FirstName: "Flag",
		LastName:  "Ged",
		Password:  "Str0ng!Pass",
	})
	require.NoError(t, err)

	stored, err := f.userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasLocalPassword)
	require.NotNil(t, stored.LocalPasswordAddedAt)

	// The stored record must trip the duplicate guard, not silently
	// replace the registration password.
	linking := authlink.NewLinkingService(f.credService, f.userRepo)
	_, err = linking.AddLocalPassword(ctx, stored, "An0ther!Pass")
	assert.ErrorIs(t, err, authlink.ErrDuplicatePassword)

	ok, err := f.credService.VerifyPassword(ctx, u.ID, "Str0ng!Pass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterLocalWeakPassword(t *testing.T) {
	f := newSignupFixture(t)

	_, err := f.service.RegisterLocal(context.Background(), RegisterLocalParams{
		Email:     "new@example.com",
		FirstName: "New",
		LastName:  "User",
		Password:  "weak",
	})
	require.Error(t, err)

	// no user should exist after a rejected password
	_, err = f.userService.GetUserByEmail(context.Background(), "new@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRegisterLocalDuplicateEmail(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()

	params := RegisterLocalParams{
		Email:     "dup@example.com",
		FirstName: "First",
		LastName:  "User",
		Password:  "Str0ng!Pass",
	}
	_, err := f.service.RegisterLocal(ctx, params)
	require.NoError(t, err)

	_, err = f.service.RegisterLocal(ctx, params)
	assert.Error(t, err)
}

func TestRegisterExternal(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()

	u, err := f.service.RegisterExternal(ctx, externalprovider.ExternalUserInfo{
		Provider:   "google",
		ExternalID: "google-sub-9",
		Email:      "ext@example.com",
		Name:       "Ext User",
	}, user.UserTypeEndUser)
	require.NoError(t, err)

	assert.Equal(t, user.AuthMethodGoogle, u.PrimaryAuthMethod)
	assert.Equal(t, "Ext", u.FirstName)
	assert.Equal(t, "User", u.LastName)
	assert.False(t, u.HasLocalPassword)

	userID, err := f.credService.FindUserIDByExternalLogin(ctx, "google", "google-sub-9")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	// external signups get a welcome email, not a confirmation one
	require.Len(t, f.mock.SentNotifications, 1)
	assert.Equal(t, notification.WelcomeNotice, f.mock.SentNoticeTypes[0])
}

func TestRegisterExternalMissingEmail(t *testing.T) {
	f := newSignupFixture(t)

	_, err := f.service.RegisterExternal(context.Background(), externalprovider.ExternalUserInfo{
		Provider:   "google",
		ExternalID: "google-sub-9",
	}, user.UserTypeNotSet)
	assert.Error(t, err)
}

func TestConfirmEmailFlow(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()

	u, err := f.service.RegisterLocal(ctx, RegisterLocalParams{
		Email:     "new@example.com",
		FirstName: "New",
		LastName:  "User",
		Password:  "Str0ng!Pass",
	})
	require.NoError(t, err)

	link := f.mock.SentNotifications[0].Data["ConfirmationLink"]
	tokenValue := link[strings.Index(link, "token=")+len("token="):]

	userID, err := f.service.ConfirmEmail(ctx, tokenValue)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	confirmed, err := f.credService.IsEmailConfirmed(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, confirmed)

	// second use of the same token fails
	_, err = f.service.ConfirmEmail(ctx, tokenValue)
	assert.Error(t, err)

	// welcome mail follows the confirmation
	assert.Equal(t, notification.WelcomeNotice, f.mock.SentNoticeTypes[len(f.mock.SentNoticeTypes)-1])
}

func TestResendConfirmation(t *testing.T) {
	f := newSignupFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterLocal(ctx, RegisterLocalParams{
		Email:     "new@example.com",
		FirstName: "New",
		LastName:  "User",
		Password:  "Str0ng!Pass",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.ResendConfirmation(ctx, "new@example.com"))
	assert.Len(t, f.mock.SentNotifications, 2)

	err = f.service.ResendConfirmation(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
