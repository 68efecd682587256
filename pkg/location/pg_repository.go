package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresReferenceDataRepository implements ReferenceDataRepository using
// PostgreSQL
type PostgresReferenceDataRepository struct {
	pool *pgxpool.Pool
	q    pgQuerier
}

// NewPostgresReferenceDataRepository creates a new PostgreSQL-based repository
func NewPostgresReferenceDataRepository(pool *pgxpool.Pool) *PostgresReferenceDataRepository {
	return &PostgresReferenceDataRepository{
		pool: pool,
		q:    pool,
	}
}

// BeginTx starts a database transaction
func (r *PostgresReferenceDataRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// WithTx returns a repository bound to the given transaction
func (r *PostgresReferenceDataRepository) WithTx(tx Tx) ReferenceDataRepository {
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &PostgresReferenceDataRepository{pool: r.pool, q: pgxTx}
}

// CountCountries returns the number of country rows
func (r *PostgresReferenceDataRepository) CountCountries(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertCountries inserts country rows with their fixed identifiers
func (r *PostgresReferenceDataRepository) InsertCountries(ctx context.Context, countries []Country) error {
	const q = `
		INSERT INTO countries (id, name, iso2_code, iso3_code)
		VALUES ($1, $2, $3, $4)`

	for _, c := range countries {
		if _, err := r.q.Exec(ctx, q, c.ID, c.Name, c.Iso2Code, c.Iso3Code); err != nil {
			return fmt.Errorf("failed to insert country %s: %w", c.Iso2Code, err)
		}
	}
	return nil
}

// InsertStateProvinces inserts state/province rows with their fixed
// identifiers. Owning countries must already be visible in the same
// transaction.
func (r *PostgresReferenceDataRepository) InsertStateProvinces(ctx context.Context, states []StateProvince) error {
	const q = `
		INSERT INTO state_provinces (id, country_id, name, abbreviation)
		VALUES ($1, $2, $3, $4)`

	for _, sp := range states {
		if _, err := r.q.Exec(ctx, q, sp.ID, sp.CountryID, sp.Name, sp.Abbreviation); err != nil {
			return fmt.Errorf("failed to insert state/province %s: %w", sp.Abbreviation, err)
		}
	}
	return nil
}

// GetCountry retrieves a country by ID
func (r *PostgresReferenceDataRepository) GetCountry(ctx context.Context, id int32) (Country, error) {
	const q = `SELECT id, name, iso2_code, iso3_code FROM countries WHERE id = $1`

	var c Country
	err := r.q.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Iso2Code, &c.Iso3Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Country{}, ErrCountryNotFound
		}
		return Country{}, err
	}
	return c, nil
}

// ListCountries returns all country rows
func (r *PostgresReferenceDataRepository) ListCountries(ctx context.Context) ([]Country, error) {
	const q = `SELECT id, name, iso2_code, iso3_code FROM countries ORDER BY id`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Iso2Code, &c.Iso3Code); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListStateProvincesByCountry returns the states owned by a country
func (r *PostgresReferenceDataRepository) ListStateProvincesByCountry(ctx context.Context, countryID int32) ([]StateProvince, error) {
	const q = `
		SELECT id, country_id, name, abbreviation
		FROM state_provinces
		WHERE country_id = $1
		ORDER BY name`

	rows, err := r.q.Query(ctx, q, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StateProvince
	for rows.Next() {
		var sp StateProvince
		if err := rows.Scan(&sp.ID, &sp.CountryID, &sp.Name, &sp.Abbreviation); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

const addressColumns = `id, name, street_line1, street_line2, street_line3, city,
	postal_code, latitude, longitude, state_province_id, purpose, profile_id, company_id, created_at`

func scanAddress(row pgx.Row) (Address, error) {
	var a Address
	var purpose string
	err := row.Scan(&a.ID, &a.Name, &a.Location.StreetLine1, &a.StreetLine2,
		&a.StreetLine3, &a.Location.City, &a.Location.PostalCode,
		&a.Location.Latitude, &a.Location.Longitude, &a.Location.StateProvinceID,
		&purpose, &a.ProfileID, &a.CompanyID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Address{}, ErrAddressNotFound
		}
		return Address{}, err
	}
	a.Purpose = AddressPurpose(purpose)
	return a, nil
}

// CreateAddress stores a new address
func (r *PostgresReferenceDataRepository) CreateAddress(ctx context.Context, addr Address) (Address, error) {
	q := fmt.Sprintf(`
		INSERT INTO addresses (id, name, street_line1, street_line2, street_line3,
			city, postal_code, latitude, longitude, state_province_id, purpose,
			profile_id, company_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s`, addressColumns)

	id := addr.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	created, err := scanAddress(r.q.QueryRow(ctx, q, id, addr.Name,
		addr.Location.StreetLine1, addr.StreetLine2, addr.StreetLine3,
		addr.Location.City, addr.Location.PostalCode, addr.Location.Latitude,
		addr.Location.Longitude, addr.Location.StateProvinceID,
		string(addr.Purpose), addr.ProfileID, addr.CompanyID))
	if err != nil {
		return Address{}, fmt.Errorf("failed to create address: %w", err)
	}
	return created, nil
}

// GetAddress retrieves an address by ID
func (r *PostgresReferenceDataRepository) GetAddress(ctx context.Context, id uuid.UUID) (Address, error) {
	q := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1`, addressColumns)
	return scanAddress(r.q.QueryRow(ctx, q, id))
}

// ListAddressesByProfile returns the addresses owned by an end-user profile
func (r *PostgresReferenceDataRepository) ListAddressesByProfile(ctx context.Context, profileID uuid.UUID) ([]Address, error) {
	q := fmt.Sprintf(`SELECT %s FROM addresses WHERE profile_id = $1 ORDER BY created_at`, addressColumns)
	return r.listAddresses(ctx, q, profileID)
}

// ListAddressesByCompany returns the addresses owned by a provider company
func (r *PostgresReferenceDataRepository) ListAddressesByCompany(ctx context.Context, companyID uuid.UUID) ([]Address, error) {
	q := fmt.Sprintf(`SELECT %s FROM addresses WHERE company_id = $1 ORDER BY created_at`, addressColumns)
	return r.listAddresses(ctx, q, companyID)
}

func (r *PostgresReferenceDataRepository) listAddresses(ctx context.Context, q string, owner uuid.UUID) ([]Address, error) {
	rows, err := r.q.Query(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

// DeleteAddress removes an address
func (r *PostgresReferenceDataRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}
