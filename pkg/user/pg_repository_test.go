package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "serviceseeker_db"
	dbUser := "seeker"
	dbPassword := "pwd"

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "serviceseeker_db.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestPostgresUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPostgresUserRepository(pool)

	created, err := repo.CreateUser(ctx, CreateUserParams{
		Email:             "Jane.Doe@example.com",
		FirstName:         "Jane",
		LastName:          "Doe",
		UserType:          UserTypeEndUser,
		PrimaryAuthMethod: AuthMethodLocal,
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, created.IsActive)
	assert.False(t, created.InitialEmailConfirmed)

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		found, err := repo.GetUserByEmail(ctx, "jane.doe@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, CreateUserParams{
			Email:             "JANE.DOE@example.com",
			PrimaryAuthMethod: AuthMethodLocal,
		})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("confirmation flag never reverts on update", func(t *testing.T) {
		u, err := repo.GetUser(ctx, created.ID)
		require.NoError(t, err)

		u.InitialEmailConfirmed = true
		u, err = repo.UpdateUser(ctx, u)
		require.NoError(t, err)
		require.True(t, u.InitialEmailConfirmed)

		// A stale copy with the flag unset must not clear it.
		stale := u
		stale.InitialEmailConfirmed = false
		stale.FirstName = "Janet"
		updated, err := repo.UpdateUser(ctx, stale)
		require.NoError(t, err)
		assert.True(t, updated.InitialEmailConfirmed)
		assert.Equal(t, "Janet", updated.FirstName)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		current, err := repo.GetUser(ctx, created.ID)
		require.NoError(t, err)

		winner := current
		winner.LastName = "Winner"
		winner, err = repo.UpdateUser(ctx, winner)
		require.NoError(t, err)
		assert.Equal(t, current.Version+1, winner.Version)

		loser := current
		loser.LastName = "Loser"
		_, err = repo.UpdateUser(ctx, loser)
		assert.ErrorIs(t, err, ErrUpdateConflict)

		stored, err := repo.GetUser(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Winner", stored.LastName)
	})

	t.Run("auth history add and close", func(t *testing.T) {
		err := repo.AddAuthHistory(ctx, AuthHistoryRecord{
			UserID:   created.ID,
			Method:   AuthMethodGoogle,
			Provider: "google",
		})
		require.NoError(t, err)

		records, err := repo.ListAuthHistory(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Active)

		err = repo.CloseAuthHistory(ctx, created.ID, AuthMethodGoogle, "google")
		require.NoError(t, err)

		records, err = repo.ListAuthHistory(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].Active)
		assert.NotNil(t, records[0].RemovedAt)
	})

	t.Run("end user profile upsert", func(t *testing.T) {
		profile, err := repo.CreateProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, profile.UserID)

		again, err := repo.CreateProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.ID, again.ID)

		got, err := repo.GetProfile(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.ID, got.ID)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		_, err := repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
