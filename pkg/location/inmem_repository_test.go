package location

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxSharesParentLock(t *testing.T) {
	repo := NewInMemoryReferenceDataRepository()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	bound, ok := repo.WithTx(tx).(*InMemoryReferenceDataRepository)
	require.True(t, ok)
	assert.Same(t, repo.mu, bound.mu)

	// Readers on the parent and a committing transaction contend on the
	// same lock, so concurrent use is safe under the race detector.
	require.NoError(t, bound.InsertCountries(context.Background(), []Country{
		{ID: 1, Name: "United States", Iso2Code: "US", Iso3Code: "USA"},
	}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			repo.ListCountries(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		tx.Commit(context.Background())
	}()
	wg.Wait()

	count, err := repo.CountCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
