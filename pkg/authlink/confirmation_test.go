package authlink

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// failingCredentialStore wraps a CredentialStore and fails selected calls.
type failingCredentialStore struct {
	CredentialStore
	failIsEmailConfirmed bool
}

func (f *failingCredentialStore) IsEmailConfirmed(ctx context.Context, userID uuid.UUID) (bool, error) {
	if f.failIsEmailConfirmed {
		return false, errors.New("store unavailable")
	}
	return f.CredentialStore.IsEmailConfirmed(ctx, userID)
}

func newConfirmationFixture(t *testing.T) (*user.InMemoryUserRepository, *credential.CredentialService, *ConfirmationService) {
	t.Helper()
	userRepo := user.NewInMemoryUserRepository()
	credService := credential.NewCredentialService(credential.NewInMemoryCredentialRepository())
	return userRepo, credService, NewConfirmationService(credService, userRepo)
}

func createUser(t *testing.T, repo *user.InMemoryUserRepository, method user.AuthMethod) user.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), user.CreateUserParams{
		Email:             uuid.New().String() + "@example.com",
		FirstName:         "Test",
		LastName:          "User",
		UserType:          user.UserTypeNotSet,
		PrimaryAuthMethod: method,
	})
	require.NoError(t, err)
	return u
}

func confirmEmail(t *testing.T, credService *credential.CredentialService, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	tok, err := credService.CreateConfirmationToken(ctx, userID)
	require.NoError(t, err)
	_, err = credService.ConfirmEmail(ctx, tok)
	require.NoError(t, err)
}

func TestIsConfirmedExternalPrimary(t *testing.T) {
	userRepo, _, service := newConfirmationFixture(t)
	ctx := context.Background()

	for _, method := range []user.AuthMethod{user.AuthMethodGoogle, user.AuthMethodLinkedIn, user.AuthMethodMicrosoft} {
		u := createUser(t, userRepo, method)

		ok, err := service.IsConfirmed(ctx, u)
		require.NoError(t, err)
		assert.True(t, ok)

		// the latch is never touched for external-primary users
		stored, err := userRepo.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, stored.InitialEmailConfirmed)
	}
}

func TestIsConfirmedLocalUnconfirmed(t *testing.T) {
	userRepo, _, service := newConfirmationFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)

	ok, err := service.IsConfirmed(ctx, u)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.InitialEmailConfirmed)
}

func TestIsConfirmedSetsLatch(t *testing.T) {
	userRepo, credService, service := newConfirmationFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)
	confirmEmail(t, credService, u.ID)

	ok, err := service.IsConfirmed(ctx, u)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.InitialEmailConfirmed)
}

func TestLatchIsMonotonic(t *testing.T) {
	userRepo, credService, service := newConfirmationFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)
	confirmEmail(t, credService, u.ID)

	ok, err := service.IsConfirmed(ctx, u)
	require.NoError(t, err)
	require.True(t, ok)

	// a stale copy is rejected outright
	stale := u
	stale.InitialEmailConfirmed = false
	_, err = userRepo.UpdateUser(ctx, stale)
	assert.ErrorIs(t, err, user.ErrUpdateConflict)

	// even a current copy with the flag cleared cannot revert the latch
	fresh, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	fresh.InitialEmailConfirmed = false
	_, err = userRepo.UpdateUser(ctx, fresh)
	require.NoError(t, err)

	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.InitialEmailConfirmed)
}

func TestIsConfirmedLatchShortCircuits(t *testing.T) {
	userRepo, credService, _ := newConfirmationFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)
	u.InitialEmailConfirmed = true

	// even a broken store cannot flip a set latch
	failing := &failingCredentialStore{CredentialStore: credService, failIsEmailConfirmed: true}
	service := NewConfirmationService(failing, userRepo)

	ok, err := service.IsConfirmed(ctx, u)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsConfirmedFailsClosed(t *testing.T) {
	userRepo, credService, _ := newConfirmationFixture(t)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)

	failing := &failingCredentialStore{CredentialStore: credService, failIsEmailConfirmed: true}
	service := NewConfirmationService(failing, userRepo)

	ok, err := service.IsConfirmed(ctx, u)
	assert.Error(t, err)
	assert.False(t, ok)
}
