package authlink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

func newLinkingFixture(t *testing.T) (*user.InMemoryUserRepository, *credential.CredentialService, *LinkingService) {
	t.Helper()
	userRepo := user.NewInMemoryUserRepository()
	credService := credential.NewCredentialService(credential.NewInMemoryCredentialRepository())
	return userRepo, credService, NewLinkingService(credService, userRepo)
}

func TestAddLocalPassword(t *testing.T) {
	userRepo, credService, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)

	updated, err := service.AddLocalPassword(ctx, u, "Str0ng!Pass")
	require.NoError(t, err)
	assert.True(t, updated.HasLocalPassword)
	require.NotNil(t, updated.LocalPasswordAddedAt)

	ok, err := credService.VerifyPassword(ctx, u.ID, "Str0ng!Pass")
	require.NoError(t, err)
	assert.True(t, ok)

	history, err := userRepo.ListAuthHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, user.AuthMethodLocal, history[0].Method)
}

func TestAddLocalPasswordDuplicate(t *testing.T) {
	userRepo, _, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	updated, err := service.AddLocalPassword(ctx, u, "Str0ng!Pass")
	require.NoError(t, err)
	addedAt := *updated.LocalPasswordAddedAt

	time.Sleep(time.Millisecond)
	_, err = service.AddLocalPassword(ctx, updated, "An0ther!Pass")
	assert.ErrorIs(t, err, ErrDuplicatePassword)

	// timestamp untouched by the failed attempt
	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LocalPasswordAddedAt)
	assert.Equal(t, addedAt, *stored.LocalPasswordAddedAt)
}

func TestAddLocalPasswordRejectsWeak(t *testing.T) {
	userRepo, _, service := newLinkingFixture(t)

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	_, err := service.AddLocalPassword(context.Background(), u, "weak")
	require.Error(t, err)

	stored, err := userRepo.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasLocalPassword)
}

func TestLinkExternalAccount(t *testing.T) {
	userRepo, credService, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)

	err := service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google")
	require.NoError(t, err)

	gotID, err := credService.FindUserIDByExternalLogin(ctx, "google", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, gotID)

	// re-linking the same pair to the same user is idempotent
	err = service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google")
	assert.NoError(t, err)
}

func TestLinkExternalAccountHeldByOther(t *testing.T) {
	userRepo, _, service := newLinkingFixture(t)
	ctx := context.Background()

	a := createUser(t, userRepo, user.AuthMethodLocal)
	b := createUser(t, userRepo, user.AuthMethodLocal)

	require.NoError(t, service.LinkExternalAccount(ctx, a, "google", "sub-1", "Google"))

	err := service.LinkExternalAccount(ctx, b, "google", "sub-1", "Google")
	var linkErr ErrExternalAccountAlreadyLinked
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "Google", linkErr.Provider)
}

func TestUnlinkLastExternalWithoutPassword(t *testing.T) {
	userRepo, _, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	require.NoError(t, service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google"))

	err := service.UnlinkExternalAccount(ctx, u, "google", "sub-1")
	assert.ErrorIs(t, err, ErrCannotRemoveLastAuthMethod)
}

func TestUnlinkWithLocalPassword(t *testing.T) {
	userRepo, credService, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	require.NoError(t, service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google"))

	u, err := service.AddLocalPassword(ctx, u, "Str0ng!Pass")
	require.NoError(t, err)

	require.NoError(t, service.UnlinkExternalAccount(ctx, u, "google", "sub-1"))

	count, err := credService.CountExternalLogins(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnlinkWithSecondExternal(t *testing.T) {
	userRepo, credService, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	require.NoError(t, service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google"))
	require.NoError(t, service.LinkExternalAccount(ctx, u, "linkedin", "sub-2", "LinkedIn"))

	require.NoError(t, service.UnlinkExternalAccount(ctx, u, "google", "sub-1"))

	count, err := credService.CountExternalLogins(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUnlinkClosesAuthHistory(t *testing.T) {
	userRepo, _, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	require.NoError(t, service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google"))
	require.NoError(t, service.LinkExternalAccount(ctx, u, "linkedin", "sub-2", "LinkedIn"))

	require.NoError(t, service.UnlinkExternalAccount(ctx, u, "google", "sub-1"))

	history, err := userRepo.ListAuthHistory(ctx, u.ID)
	require.NoError(t, err)
	for _, rec := range history {
		if rec.Method == user.AuthMethodGoogle {
			assert.False(t, rec.Active)
			assert.NotNil(t, rec.RemovedAt)
		} else {
			assert.True(t, rec.Active)
		}
	}
}

func TestHasMultipleAuthMethods(t *testing.T) {
	userRepo, _, service := newLinkingFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)

	ok, err := service.HasMultipleAuthMethods(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, service.LinkExternalAccount(ctx, u, "google", "sub-1", "Google"))

	ok, err = service.HasMultipleAuthMethods(ctx, u.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)
}
