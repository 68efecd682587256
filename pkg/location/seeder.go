package location

import (
	"context"
	"fmt"
	"log/slog"
)

// Seeder populates the geographic reference data exactly once, inside a
// single transaction. It runs at application startup, before the server
// accepts requests that depend on the reference tables.
type Seeder struct {
	db   TxBeginner
	repo ReferenceDataRepository
}

// NewSeeder creates a new reference-data seeder
func NewSeeder(db TxBeginner, repo ReferenceDataRepository) *Seeder {
	return &Seeder{
		db:   db,
		repo: repo,
	}
}

// Seed inserts the fixed Country and StateProvince sets if the reference
// tables are empty. The whole run is a single transaction: either every
// row becomes visible or none does. A second invocation is a no-op.
func (s *Seeder) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}
	defer tx.Rollback(ctx)

	repo := s.repo.WithTx(tx)

	count, err := repo.CountCountries(ctx)
	if err != nil {
		return fmt.Errorf("seeding: failed to check reference data: %w", err)
	}
	if count > 0 {
		slog.Info("Reference data already seeded, skipping")
		return tx.Commit(ctx)
	}

	slog.Info("Reference tables empty, seeding location data")

	// Countries first: states reference them within the same transaction.
	if err := repo.InsertCountries(ctx, Countries()); err != nil {
		return fmt.Errorf("seeding countries: %w", err)
	}
	if err := repo.InsertStateProvinces(ctx, StateProvinces()); err != nil {
		return fmt.Errorf("seeding state_provinces: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("seeding: commit failed: %w", err)
	}
	slog.Info("Finished seeding reference data",
		"countries", len(Countries()), "stateProvinces", len(StateProvinces()))
	return nil
}
