package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*InMemoryUserRepository, *UserService) {
	repo := NewInMemoryUserRepository()
	return repo, NewUserService(repo)
}

func TestCreateUser(t *testing.T) {
	_, service := newTestService()
	ctx := context.Background()

	u, err := service.CreateUser(ctx, CreateUserParams{
		Email:     "pat@example.com",
		FirstName: "Pat",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, "pat@example.com", u.Email)
	assert.Equal(t, AuthMethodLocal, u.PrimaryAuthMethod, "local is the default method")
	assert.Equal(t, UserTypeNotSet, u.UserType)
	assert.True(t, u.IsActive)
	assert.False(t, u.InitialEmailConfirmed)
	assert.False(t, u.PrimaryAuthSetAt.IsZero())
	assert.Equal(t, "Pat Doe", u.FullName())
}

func TestCreateUserValidation(t *testing.T) {
	_, service := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		params CreateUserParams
	}{
		{"missing email", CreateUserParams{FirstName: "Pat", LastName: "Doe"}},
		{"bad email", CreateUserParams{Email: "not-an-email", FirstName: "Pat", LastName: "Doe"}},
		{"missing name", CreateUserParams{Email: "pat@example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateUser(ctx, tc.params)
			assert.Error(t, err)
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	_, service := newTestService()
	ctx := context.Background()

	params := CreateUserParams{Email: "pat@example.com", FirstName: "Pat", LastName: "Doe"}
	_, err := service.CreateUser(ctx, params)
	require.NoError(t, err)

	// emails are matched case-insensitively
	params.Email = "PAT@example.com"
	_, err = service.CreateUser(ctx, params)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetUserByEmail(t *testing.T) {
	_, service := newTestService()
	ctx := context.Background()

	created, err := service.CreateUser(ctx, CreateUserParams{
		Email: "pat@example.com", FirstName: "Pat", LastName: "Doe",
	})
	require.NoError(t, err)

	u, err := service.GetUserByEmail(ctx, "Pat@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = service.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetUserTypeCreatesProfile(t *testing.T) {
	repo, service := newTestService()
	ctx := context.Background()

	u, err := service.CreateUser(ctx, CreateUserParams{
		Email: "pat@example.com", FirstName: "Pat", LastName: "Doe",
	})
	require.NoError(t, err)

	updated, err := service.SetUserType(ctx, u.ID, UserTypeEndUser)
	require.NoError(t, err)
	assert.Equal(t, UserTypeEndUser, updated.UserType)

	profile, err := repo.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, profile.UserID)
}

func TestSetUserTypeProviderHasNoProfile(t *testing.T) {
	repo, service := newTestService()
	ctx := context.Background()

	u, err := service.CreateUser(ctx, CreateUserParams{
		Email: "pro@example.com", FirstName: "Pro", LastName: "Vider",
	})
	require.NoError(t, err)

	_, err = service.SetUserType(ctx, u.ID, UserTypeServiceProvider)
	require.NoError(t, err)

	_, err = repo.GetProfile(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserDetectsLostUpdate(t *testing.T) {
	repo, service := newTestService()
	ctx := context.Background()

	u, err := service.CreateUser(ctx, CreateUserParams{Email: "race@example.com"})
	require.NoError(t, err)

	// two readers grab the same version
	first := u
	second := u

	first.FirstName = "First"
	first, err = repo.UpdateUser(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, u.Version+1, first.Version)

	// the slower writer must not silently overwrite
	second.FirstName = "Second"
	_, err = repo.UpdateUser(ctx, second)
	assert.ErrorIs(t, err, ErrUpdateConflict)

	stored, err := repo.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", stored.FirstName)
}

func TestDeactivate(t *testing.T) {
	_, service := newTestService()
	ctx := context.Background()

	u, err := service.CreateUser(ctx, CreateUserParams{
		Email: "pat@example.com", FirstName: "Pat", LastName: "Doe",
	})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, u.ID))

	stored, err := service.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestAuthMethodHelpers(t *testing.T) {
	assert.False(t, AuthMethodLocal.IsExternal())
	assert.True(t, AuthMethodGoogle.IsExternal())
	assert.True(t, AuthMethodLinkedIn.IsExternal())
	assert.True(t, AuthMethodMicrosoft.IsExternal())

	_, err := ParseAuthMethod("facebook")
	assert.Error(t, err)

	m, err := ParseAuthMethod("microsoft")
	require.NoError(t, err)
	assert.Equal(t, AuthMethodMicrosoft, m)
}

func TestRequiresEmailConfirmation(t *testing.T) {
	local := User{PrimaryAuthMethod: AuthMethodLocal}
	assert.True(t, local.RequiresEmailConfirmation())

	local.InitialEmailConfirmed = true
	assert.False(t, local.RequiresEmailConfirmation())

	external := User{PrimaryAuthMethod: AuthMethodGoogle}
	assert.False(t, external.RequiresEmailConfirmation())
	assert.True(t, external.IsExternalPrimary())
}
