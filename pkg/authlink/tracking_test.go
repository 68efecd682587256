package authlink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceseeker/serviceseeker/pkg/user"
)

// failingUserStore fails every update to exercise the best-effort path.
type failingUserStore struct {
	UserStore
}

func (f *failingUserStore) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	return user.User{}, errors.New("store unavailable")
}

func TestTrackLogin(t *testing.T) {
	userRepo := user.NewInMemoryUserRepository()
	service := NewTrackingService(userRepo)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)
	require.Nil(t, u.LastLoginAt)

	tracked := service.TrackLogin(ctx, u, false)
	require.NotNil(t, tracked.LastLoginAt)
	assert.False(t, tracked.HasLocalPassword, "external login must not set the password flag")

	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestTrackLoginBackfillsPasswordFlag(t *testing.T) {
	userRepo := user.NewInMemoryUserRepository()
	service := NewTrackingService(userRepo)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)
	require.False(t, u.HasLocalPassword)

	tracked := service.TrackLogin(ctx, u, true)
	assert.True(t, tracked.HasLocalPassword)
	assert.NotNil(t, tracked.LocalPasswordAddedAt)
}

func TestTrackLoginRetriesAfterConcurrentUpdate(t *testing.T) {
	userRepo := user.NewInMemoryUserRepository()
	service := NewTrackingService(userRepo)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodLocal)

	// another writer bumps the record after our copy was read
	fresh, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	fresh.InitialEmailConfirmed = true
	_, err = userRepo.UpdateUser(ctx, fresh)
	require.NoError(t, err)

	tracked := service.TrackLogin(ctx, u, true)
	assert.NotNil(t, tracked.LastLoginAt)
	assert.True(t, tracked.InitialEmailConfirmed, "retry must keep the concurrent change")

	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
	assert.True(t, stored.InitialEmailConfirmed)
}

func TestTrackLoginSwallowsStoreErrors(t *testing.T) {
	userRepo := user.NewInMemoryUserRepository()
	u := createUser(t, userRepo, user.AuthMethodLocal)

	service := NewTrackingService(&failingUserStore{UserStore: userRepo})

	// must not panic or fail the sign-in; the input user is returned
	tracked := service.TrackLogin(context.Background(), u, true)
	assert.Equal(t, u.ID, tracked.ID)
	assert.NotNil(t, tracked.LastLoginAt)
}

func TestTrackPasswordSet(t *testing.T) {
	userRepo := user.NewInMemoryUserRepository()
	service := NewTrackingService(userRepo)
	ctx := context.Background()

	u := createUser(t, userRepo, user.AuthMethodGoogle)

	tracked := service.TrackPasswordSet(ctx, u)
	assert.True(t, tracked.HasLocalPassword)
	require.NotNil(t, tracked.LocalPasswordAddedAt)

	stored, err := userRepo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasLocalPassword)
}
